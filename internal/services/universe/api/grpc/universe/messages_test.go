package universe

import (
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// wireRoundTrip encodes v, sends it through the protobuf wire format and
// decodes it again.
func wireRoundTrip[T any](t *testing.T, c messageCodec[T], v T) T {
	t.Helper()
	payload, err := proto.Marshal(c.marshal(v))
	if err != nil {
		t.Fatalf("marshal %s: %v", c.desc.FullName(), err)
	}
	msg := c.new()
	if err := proto.Unmarshal(payload, msg); err != nil {
		t.Fatalf("unmarshal %s: %v", c.desc.FullName(), err)
	}
	out, err := c.unmarshal(msg)
	if err != nil {
		t.Fatalf("decode %s: %v", c.desc.FullName(), err)
	}
	return out
}

func TestSchemaCoversServiceDescs(t *testing.T) {
	for _, tc := range []struct {
		desc grpc.ServiceDesc
		file protoreflect.FileDescriptor
	}{
		{UniverseService_ServiceDesc, UniverseFileDescriptor()},
		{CounterService_ServiceDesc, CounterFileDescriptor()},
	} {
		if tc.desc.Metadata != tc.file.Path() {
			t.Fatalf("%s metadata = %v, want %s", tc.desc.ServiceName, tc.desc.Metadata, tc.file.Path())
		}
		svc := tc.file.Services().ByName(protoreflect.FullName(tc.desc.ServiceName).Name())
		if svc == nil || svc.FullName() != protoreflect.FullName(tc.desc.ServiceName) {
			t.Fatalf("schema has no service %s", tc.desc.ServiceName)
		}
		if svc.Methods().Len() != len(tc.desc.Methods) {
			t.Fatalf("%s: schema has %d methods, desc has %d", tc.desc.ServiceName, svc.Methods().Len(), len(tc.desc.Methods))
		}
		for _, m := range tc.desc.Methods {
			if svc.Methods().ByName(protoreflect.Name(m.MethodName)) == nil {
				t.Fatalf("%s: schema has no method %s", tc.desc.ServiceName, m.MethodName)
			}
		}
	}
}

func TestUniverseMessageShape(t *testing.T) {
	u, err := model.New(3, 2, "alice")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u.SetCells(model.Coordinate{Row: 1, Column: 2})

	msg := universeCodec.marshal(&storage.UniverseRecord{ID: "abc", Universe: u})
	if got := getString(msg, "cells"); got != "000001" {
		t.Fatalf("cells = %q", got)
	}
	if got := getField(msg, "live_cells").Uint(); got != 1 {
		t.Fatalf("live_cells = %d", got)
	}
	if got := getField(msg, "width").Uint(); got != 3 {
		t.Fatalf("width = %d", got)
	}

	decoded := wireRoundTrip(t, universeCodec, &storage.UniverseRecord{ID: "abc", Universe: u})
	if decoded.ID != "abc" || decoded.Universe.String() != u.String() || decoded.Universe.Owner != "alice" {
		t.Fatalf("decoded %+v", decoded)
	}
}

func TestUniverseMessageRejectsBadCells(t *testing.T) {
	msg := dynamicpb.NewMessage(universeDesc)
	setField(msg, "width", protoreflect.ValueOfUint32(2))
	setField(msg, "height", protoreflect.ValueOfUint32(1))
	setString(msg, "cells", "0x")
	if _, err := universeCodec.unmarshal(msg); err == nil {
		t.Fatal("expected error for invalid cells")
	}
}

func TestUniverseMessageRejectsShortCells(t *testing.T) {
	msg := dynamicpb.NewMessage(universeDesc)
	setField(msg, "width", protoreflect.ValueOfUint32(2))
	setField(msg, "height", protoreflect.ValueOfUint32(2))
	setString(msg, "cells", "01")
	if _, err := universeCodec.unmarshal(msg); err == nil {
		t.Fatal("expected error for cells shorter than width*height")
	}
}

func TestEventMessageRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC)
	stored := events.Event{Seq: 9, Kind: events.KindSomethingStored, Caller: "carol", Value: 0, Timestamp: ts}
	ticked := events.Event{Seq: 10, Kind: events.KindTick, Caller: "dave", UniverseID: "abc"}

	resp := wireRoundTrip(t, listEventsResponseCodec, &ListEventsResponse{
		Events:        []events.Event{stored, ticked},
		NextPageToken: "next",
	})
	if len(resp.Events) != 2 || resp.NextPageToken != "next" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Events[0].Timestamp.Equal(ts) {
		t.Fatalf("timestamp = %v, want %v", resp.Events[0].Timestamp, ts)
	}
	got := resp.Events[0]
	got.Timestamp = ts
	if got != stored {
		t.Fatalf("got %+v, want %+v", got, stored)
	}
	if resp.Events[1] != ticked {
		t.Fatalf("got %+v, want %+v", resp.Events[1], ticked)
	}
}

func TestListEventsRequestRoundTrip(t *testing.T) {
	want := ListEventsRequest{Filter: `kind = "tick"`, PageSize: 5, PageToken: "tok", AfterSeq: 1 << 40}
	got := wireRoundTrip(t, listEventsRequestCodec, &want)
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

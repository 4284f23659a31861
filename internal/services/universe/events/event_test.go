package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindCreated, KindTick, KindSomethingStored} {
		if !k.Valid() {
			t.Fatalf("expected %s to be valid", k)
		}
	}
	if Kind("deleted").Valid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}

func TestEventJSONKeepsZeroValue(t *testing.T) {
	payload, err := json.Marshal(Event{Seq: 3, Kind: KindSomethingStored, Caller: "alice", Value: 0})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(payload, []byte(`"value":0`)) {
		t.Fatalf("expected stored zero in %s", payload)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["universe_id"]; ok {
		t.Fatalf("counter event should omit universe_id: %s", payload)
	}
}

func TestFanoutDeliversPastFailures(t *testing.T) {
	var got []string
	record := func(name string, err error) Sink {
		return SinkFunc(func(_ context.Context, evt Event) error {
			got = append(got, name+":"+string(evt.Kind))
			return err
		})
	}
	boom := errors.New("boom")
	fan := Fanout{record("a", boom), nil, record("b", nil)}

	err := fan.Publish(context.Background(), Event{Kind: KindTick})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	if strings.Join(got, ",") != "a:tick,b:tick" {
		t.Fatalf("unexpected deliveries %v", got)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.New(&buf, "", 0)}

	if err := sink.Publish(context.Background(), Event{Seq: 3, Kind: KindTick, Caller: "alice", UniverseID: "abc"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := sink.Publish(context.Background(), Event{Seq: 4, Kind: KindSomethingStored, Caller: "bob", Value: 9}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	want := "event seq=3 kind=tick caller=alice universe=abc\nevent seq=4 kind=something_stored caller=bob value=9\n"
	if buf.String() != want {
		t.Fatalf("log output = %q, want %q", buf.String(), want)
	}
}

type fakeAppender struct {
	seq uint64
	err error
}

func (f *fakeAppender) AppendEvent(_ context.Context, evt Event) (Event, error) {
	if f.err != nil {
		return Event{}, f.err
	}
	f.seq++
	evt.Seq = f.seq
	return evt, nil
}

func TestJournalSequencesBeforeForwarding(t *testing.T) {
	store := &fakeAppender{}
	var forwarded []Event
	journal := NewJournal(store, SinkFunc(func(_ context.Context, evt Event) error {
		forwarded = append(forwarded, evt)
		return nil
	}))

	for range 2 {
		if err := journal.Publish(context.Background(), Event{Kind: KindCreated}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if len(forwarded) != 2 || forwarded[0].Seq != 1 || forwarded[1].Seq != 2 {
		t.Fatalf("unexpected forwarded events %+v", forwarded)
	}
}

func TestJournalStopsOnAppendFailure(t *testing.T) {
	store := &fakeAppender{err: errors.New("disk full")}
	called := false
	journal := NewJournal(store, SinkFunc(func(context.Context, Event) error {
		called = true
		return nil
	}))

	if err := journal.Publish(context.Background(), Event{Kind: KindTick}); err == nil {
		t.Fatal("expected append error")
	}
	if called {
		t.Fatal("expected event not to be forwarded")
	}
}

func TestJournalWithoutNextOnlyRecords(t *testing.T) {
	store := &fakeAppender{}
	if err := NewJournal(store, nil).Publish(context.Background(), Event{Kind: KindTick}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if store.seq != 1 {
		t.Fatalf("seq = %d, want 1", store.seq)
	}
}

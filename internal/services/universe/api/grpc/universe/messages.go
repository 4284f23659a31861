package universe

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/louisbranch/tickverse/internal/services/universe/domain/encoding"
	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// CreateUniverseRequest is tickverse.universe.v1.CreateUniverseRequest. The
// owner is the caller identity.
type CreateUniverseRequest struct{}

// TickRequest is tickverse.universe.v1.TickRequest.
type TickRequest struct {
	UniverseID string
}

// GetUniverseRequest is tickverse.universe.v1.GetUniverseRequest.
type GetUniverseRequest struct {
	UniverseID string
}

// ListUniversesRequest is tickverse.universe.v1.ListUniversesRequest.
type ListUniversesRequest struct {
	PageSize  int32
	PageToken string
}

// ListUniversesResponse is tickverse.universe.v1.ListUniversesResponse.
type ListUniversesResponse struct {
	Universes     []storage.UniverseRecord
	NextPageToken string
}

// ListEventsRequest is tickverse.universe.v1.ListEventsRequest.
//
// Filter is an AIP-160 expression over kind, caller, universe_id, seq and
// value. A page token takes precedence over AfterSeq.
type ListEventsRequest struct {
	Filter    string
	PageSize  int32
	PageToken string
	AfterSeq  uint64
}

// ListEventsResponse is tickverse.universe.v1.ListEventsResponse.
type ListEventsResponse struct {
	Events        []events.Event
	NextPageToken string
}

// StoreValueRequest is tickverse.counter.v1.StoreValueRequest.
type StoreValueRequest struct {
	Value uint32
}

// IncrementRequest is tickverse.counter.v1.IncrementRequest.
type IncrementRequest struct{}

// CounterValue is tickverse.counter.v1.CounterValue.
type CounterValue struct {
	Value uint32
}

// messageCodec converts a Go message to and from its wire form.
type messageCodec[T any] struct {
	desc   protoreflect.MessageDescriptor
	encode func(protoreflect.Message, T)
	decode func(protoreflect.Message) (T, error)
}

func (c messageCodec[T]) marshal(v T) *dynamicpb.Message {
	m := dynamicpb.NewMessage(c.desc)
	c.encode(m, v)
	return m
}

func (c messageCodec[T]) unmarshal(m *dynamicpb.Message) (T, error) {
	v, err := c.decode(m)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", c.desc.FullName(), err)
	}
	return v, nil
}

func (c messageCodec[T]) new() *dynamicpb.Message {
	return dynamicpb.NewMessage(c.desc)
}

var (
	createUniverseRequestCodec = messageCodec[*CreateUniverseRequest]{
		desc:   createUniverseRequestDesc,
		encode: func(protoreflect.Message, *CreateUniverseRequest) {},
		decode: func(protoreflect.Message) (*CreateUniverseRequest, error) { return &CreateUniverseRequest{}, nil },
	}
	tickRequestCodec = messageCodec[*TickRequest]{
		desc: tickRequestDesc,
		encode: func(m protoreflect.Message, v *TickRequest) {
			setString(m, "universe_id", v.UniverseID)
		},
		decode: func(m protoreflect.Message) (*TickRequest, error) {
			return &TickRequest{UniverseID: getString(m, "universe_id")}, nil
		},
	}
	getUniverseRequestCodec = messageCodec[*GetUniverseRequest]{
		desc: getUniverseRequestDesc,
		encode: func(m protoreflect.Message, v *GetUniverseRequest) {
			setString(m, "universe_id", v.UniverseID)
		},
		decode: func(m protoreflect.Message) (*GetUniverseRequest, error) {
			return &GetUniverseRequest{UniverseID: getString(m, "universe_id")}, nil
		},
	}
	universeCodec = messageCodec[*storage.UniverseRecord]{
		desc: universeDesc,
		encode: func(m protoreflect.Message, v *storage.UniverseRecord) {
			encodeUniverse(m, v.ID, v.Universe)
		},
		decode: func(m protoreflect.Message) (*storage.UniverseRecord, error) {
			id, u, err := decodeUniverse(m)
			if err != nil {
				return nil, err
			}
			return &storage.UniverseRecord{ID: id, Universe: u}, nil
		},
	}
	listUniversesRequestCodec = messageCodec[*ListUniversesRequest]{
		desc: listUniversesRequestDesc,
		encode: func(m protoreflect.Message, v *ListUniversesRequest) {
			setField(m, "page_size", protoreflect.ValueOfInt32(v.PageSize))
			setString(m, "page_token", v.PageToken)
		},
		decode: func(m protoreflect.Message) (*ListUniversesRequest, error) {
			return &ListUniversesRequest{
				PageSize:  int32(getField(m, "page_size").Int()),
				PageToken: getString(m, "page_token"),
			}, nil
		},
	}
	listUniversesResponseCodec = messageCodec[*ListUniversesResponse]{
		desc: listUniversesResponseDesc,
		encode: func(m protoreflect.Message, v *ListUniversesResponse) {
			list := m.Mutable(field(m, "universes")).List()
			for _, rec := range v.Universes {
				item := list.NewElement()
				encodeUniverse(item.Message(), rec.ID, rec.Universe)
				list.Append(item)
			}
			setString(m, "next_page_token", v.NextPageToken)
		},
		decode: func(m protoreflect.Message) (*ListUniversesResponse, error) {
			out := &ListUniversesResponse{NextPageToken: getString(m, "next_page_token")}
			list := getField(m, "universes").List()
			for i := 0; i < list.Len(); i++ {
				id, u, err := decodeUniverse(list.Get(i).Message())
				if err != nil {
					return nil, fmt.Errorf("universe %d: %w", i, err)
				}
				out.Universes = append(out.Universes, storage.UniverseRecord{ID: id, Universe: u})
			}
			return out, nil
		},
	}
	listEventsRequestCodec = messageCodec[*ListEventsRequest]{
		desc: listEventsRequestDesc,
		encode: func(m protoreflect.Message, v *ListEventsRequest) {
			setString(m, "filter", v.Filter)
			setField(m, "page_size", protoreflect.ValueOfInt32(v.PageSize))
			setString(m, "page_token", v.PageToken)
			setField(m, "after_seq", protoreflect.ValueOfUint64(v.AfterSeq))
		},
		decode: func(m protoreflect.Message) (*ListEventsRequest, error) {
			return &ListEventsRequest{
				Filter:    getString(m, "filter"),
				PageSize:  int32(getField(m, "page_size").Int()),
				PageToken: getString(m, "page_token"),
				AfterSeq:  getField(m, "after_seq").Uint(),
			}, nil
		},
	}
	listEventsResponseCodec = messageCodec[*ListEventsResponse]{
		desc: listEventsResponseDesc,
		encode: func(m protoreflect.Message, v *ListEventsResponse) {
			list := m.Mutable(field(m, "events")).List()
			for _, evt := range v.Events {
				item := list.NewElement()
				encodeEvent(item.Message(), evt)
				list.Append(item)
			}
			setString(m, "next_page_token", v.NextPageToken)
		},
		decode: func(m protoreflect.Message) (*ListEventsResponse, error) {
			out := &ListEventsResponse{NextPageToken: getString(m, "next_page_token")}
			list := getField(m, "events").List()
			for i := 0; i < list.Len(); i++ {
				evt, err := decodeEvent(list.Get(i).Message())
				if err != nil {
					return nil, fmt.Errorf("event %d: %w", i, err)
				}
				out.Events = append(out.Events, evt)
			}
			return out, nil
		},
	}
	storeValueRequestCodec = messageCodec[*StoreValueRequest]{
		desc: storeValueRequestDesc,
		encode: func(m protoreflect.Message, v *StoreValueRequest) {
			setField(m, "value", protoreflect.ValueOfUint32(v.Value))
		},
		decode: func(m protoreflect.Message) (*StoreValueRequest, error) {
			return &StoreValueRequest{Value: uint32(getField(m, "value").Uint())}, nil
		},
	}
	incrementRequestCodec = messageCodec[*IncrementRequest]{
		desc:   incrementRequestDesc,
		encode: func(protoreflect.Message, *IncrementRequest) {},
		decode: func(protoreflect.Message) (*IncrementRequest, error) { return &IncrementRequest{}, nil },
	}
	counterValueCodec = messageCodec[*CounterValue]{
		desc: counterValueDesc,
		encode: func(m protoreflect.Message, v *CounterValue) {
			setField(m, "value", protoreflect.ValueOfUint32(v.Value))
		},
		decode: func(m protoreflect.Message) (*CounterValue, error) {
			return &CounterValue{Value: uint32(getField(m, "value").Uint())}, nil
		},
	}
)

func encodeUniverse(m protoreflect.Message, id model.ID, u model.Universe) {
	record := encoding.NewRecord(u)
	setString(m, "id", id.String())
	setField(m, "width", protoreflect.ValueOfUint32(record.Width))
	setField(m, "height", protoreflect.ValueOfUint32(record.Height))
	setString(m, "owner", record.Owner)
	setString(m, "cells", record.Cells)
	setField(m, "live_cells", protoreflect.ValueOfUint32(uint32(u.LiveCells())))
}

func decodeUniverse(m protoreflect.Message) (model.ID, model.Universe, error) {
	record := encoding.Record{
		Width:  uint32(getField(m, "width").Uint()),
		Height: uint32(getField(m, "height").Uint()),
		Cells:  getString(m, "cells"),
		Owner:  getString(m, "owner"),
	}
	u, err := record.Universe()
	if err != nil {
		return "", model.Universe{}, fmt.Errorf("decode universe: %w", err)
	}
	return model.ID(getString(m, "id")), u, nil
}

func encodeEvent(m protoreflect.Message, evt events.Event) {
	setField(m, "seq", protoreflect.ValueOfUint64(evt.Seq))
	setString(m, "kind", string(evt.Kind))
	setString(m, "caller", evt.Caller)
	setString(m, "universe_id", evt.UniverseID)
	setField(m, "value", protoreflect.ValueOfUint32(evt.Value))
	if !evt.Timestamp.IsZero() {
		setField(m, "timestamp", protoreflect.ValueOfMessage(timestamppb.New(evt.Timestamp).ProtoReflect()))
	}
}

func decodeEvent(m protoreflect.Message) (events.Event, error) {
	evt := events.Event{
		Seq:        getField(m, "seq").Uint(),
		Kind:       events.Kind(getString(m, "kind")),
		Caller:     getString(m, "caller"),
		UniverseID: getString(m, "universe_id"),
		Value:      uint32(getField(m, "value").Uint()),
	}
	if fd := field(m, "timestamp"); m.Has(fd) {
		tm := m.Get(fd).Message()
		ts := &timestamppb.Timestamp{
			Seconds: getField(tm, "seconds").Int(),
			Nanos:   int32(getField(tm, "nanos").Int()),
		}
		if err := ts.CheckValid(); err != nil {
			return events.Event{}, fmt.Errorf("timestamp: %w", err)
		}
		evt.Timestamp = ts.AsTime()
	}
	return evt, nil
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		panic(fmt.Sprintf("%s has no field %s", m.Descriptor().FullName(), name))
	}
	return fd
}

func getField(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(field(m, name))
}

func setField(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Set(field(m, name), v)
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return getField(m, name).String()
}

func setString(m protoreflect.Message, name protoreflect.Name, v string) {
	setField(m, name, protoreflect.ValueOfString(v))
}

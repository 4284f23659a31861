// Package events defines the notifications emitted by universe and counter
// operations and the sinks that deliver them.
package events

import (
	"context"
	"errors"
	"time"
)

// Kind names what happened.
type Kind string

const (
	// KindCreated is emitted after a universe is first stored.
	KindCreated Kind = "created"
	// KindTick is emitted after a universe advances one generation.
	KindTick Kind = "tick"
	// KindSomethingStored is emitted after the counter value is written.
	KindSomethingStored Kind = "something_stored"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCreated, KindTick, KindSomethingStored:
		return true
	default:
		return false
	}
}

// Event is one published notification.
//
// Seq is zero until a journal assigns it. UniverseID is empty for counter
// events and Value is only meaningful for KindSomethingStored.
type Event struct {
	Seq        uint64    `json:"seq"`
	Kind       Kind      `json:"kind"`
	Caller     string    `json:"caller"`
	UniverseID string    `json:"universe_id,omitempty"`
	Value      uint32    `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink receives published events.
type Sink interface {
	Publish(ctx context.Context, evt Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, evt Event) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

// Fanout delivers each event to every sink in order. Delivery continues
// past failing sinks; the joined error is returned.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

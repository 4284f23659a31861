package events

import (
	"context"
	"fmt"
)

// Appender persists an event and returns it with its sequence number set.
type Appender interface {
	AppendEvent(ctx context.Context, evt Event) (Event, error)
}

// Journal records each event before forwarding it, so downstream sinks see
// sequenced events that can also be replayed from storage.
type Journal struct {
	store Appender
	next  Sink
}

// NewJournal returns a journal that appends to store and then publishes to
// next. A nil next only records.
func NewJournal(store Appender, next Sink) *Journal {
	if next == nil {
		next = Discard
	}
	return &Journal{store: store, next: next}
}

// Publish implements Sink.
func (j *Journal) Publish(ctx context.Context, evt Event) error {
	if j == nil || j.store == nil {
		return fmt.Errorf("journal store is not configured")
	}
	stored, err := j.store.AppendEvent(ctx, evt)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return j.next.Publish(ctx, stored)
}

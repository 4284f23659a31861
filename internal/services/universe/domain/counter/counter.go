// Package counter holds a single optional unsigned value that callers can
// overwrite or increment. It shares no state with universes.
package counter

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

var (
	// ErrNoneValue is returned by Increment before any value is stored.
	ErrNoneValue = apperrors.New(apperrors.CodeNoneValue, "no value stored")
	// ErrStorageOverflow is returned by Increment when the value is already at its maximum.
	ErrStorageOverflow = apperrors.New(apperrors.CodeStorageOverflow, "stored value would overflow")
)

// Store persists the counter value. GetCounter reports a NOT_FOUND error
// until a value has been written.
type Store interface {
	GetCounter(ctx context.Context) (uint32, error)
	PutCounter(ctx context.Context, value uint32) error
}

// Service applies counter operations. Operations are serialized so an
// increment never interleaves with another write.
type Service struct {
	mu    sync.Mutex
	store Store
	sink  events.Sink
	now   func() time.Time
}

// NewService returns a counter service. A nil sink discards events.
func NewService(store Store, sink events.Sink) *Service {
	if sink == nil {
		sink = events.Discard
	}
	return &Service{store: store, sink: sink, now: time.Now}
}

// Store writes value and publishes a something_stored event.
func (s *Service) Store(ctx context.Context, caller string, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.PutCounter(ctx, value); err != nil {
		return fmt.Errorf("store counter: %w", err)
	}
	evt := events.Event{
		Kind:      events.KindSomethingStored,
		Caller:    caller,
		Value:     value,
		Timestamp: s.now().UTC(),
	}
	if err := s.sink.Publish(ctx, evt); err != nil {
		log.Printf("publish %s event: %v", evt.Kind, err)
	}
	return nil
}

// Increment adds one to the stored value and returns the result.
func (s *Service) Increment(ctx context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.store.GetCounter(ctx)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			return 0, ErrNoneValue
		}
		return 0, fmt.Errorf("load counter: %w", err)
	}
	if value == math.MaxUint32 {
		return 0, ErrStorageOverflow
	}
	value++
	if err := s.store.PutCounter(ctx, value); err != nil {
		return 0, fmt.Errorf("store counter: %w", err)
	}
	return value, nil
}

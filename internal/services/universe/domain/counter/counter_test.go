package counter

import (
	"context"
	"errors"
	"math"
	"testing"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

func TestIncrementWithoutValue(t *testing.T) {
	svc := NewService(storage.NewMemory(), nil)
	_, err := svc.Increment(context.Background())
	if !errors.Is(err, ErrNoneValue) {
		t.Fatalf("expected ErrNoneValue, got %v", err)
	}
}

func TestStoreThenIncrement(t *testing.T) {
	store := storage.NewMemory()
	var published []events.Event
	svc := NewService(store, events.SinkFunc(func(_ context.Context, evt events.Event) error {
		published = append(published, evt)
		return nil
	}))
	ctx := context.Background()

	if err := svc.Store(ctx, "alice", 41); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, err := svc.Increment(ctx)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if got != 42 {
		t.Fatalf("value = %d, want 42", got)
	}
	stored, err := store.GetCounter(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != 42 {
		t.Fatalf("stored = %d, want 42", stored)
	}

	if len(published) != 1 {
		t.Fatalf("events = %d, want 1", len(published))
	}
	if evt := published[0]; evt.Kind != events.KindSomethingStored || evt.Caller != "alice" || evt.Value != 41 {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestIncrementOverflow(t *testing.T) {
	store := storage.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.Store(ctx, "alice", math.MaxUint32); err != nil {
		t.Fatalf("store: %v", err)
	}
	_, err := svc.Increment(ctx)
	if code := apperrors.GetCode(err); code != apperrors.CodeStorageOverflow {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeStorageOverflow)
	}
	stored, err := store.GetCounter(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != math.MaxUint32 {
		t.Fatalf("stored = %d, want unchanged max", stored)
	}
}

func TestStorePublishFailureIsIgnored(t *testing.T) {
	svc := NewService(storage.NewMemory(), events.SinkFunc(func(context.Context, events.Event) error {
		return errors.New("no watchers")
	}))
	if err := svc.Store(context.Background(), "alice", 1); err != nil {
		t.Fatalf("store: %v", err)
	}
}

// Package engine applies the create and tick transitions to stored
// universes.
//
// The engine holds no state of its own. Every transition reads the stored
// universe, computes the successor in a separate buffer, writes it back
// under the same identifier, and only then publishes an event. A failed
// lookup or write leaves storage untouched and publishes nothing.
//
// Operations on one identifier are ordered through a Locker. The default
// locker does nothing, which is only safe for a single caller at a time;
// servers install a KeyedLocker.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/encoding"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

const tracerName = "github.com/louisbranch/tickverse/internal/services/universe/domain/engine"

// Store persists universes by identifier.
type Store interface {
	GetUniverse(ctx context.Context, id universe.ID) (universe.Universe, error)
	PutUniverse(ctx context.Context, id universe.ID, u universe.Universe) error
	ListUniverses(ctx context.Context, pageSize int, pageToken string) (storage.UniversePage, error)
}

// Hasher derives the identifier of a freshly created universe.
type Hasher func(universe.Universe) (universe.ID, error)

// Engine runs universe transitions against a store.
type Engine struct {
	store  Store
	sink   events.Sink
	hasher Hasher
	now    func() time.Time
	tracer trace.Tracer
	locker Locker
}

// Option configures an Engine.
type Option func(*Engine)

// WithHasher replaces the content hash used to name new universes.
func WithHasher(h Hasher) Option {
	return func(e *Engine) {
		if h != nil {
			e.hasher = h
		}
	}
}

// WithClock overrides the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocker orders operations that share an identifier.
func WithLocker(l Locker) Option {
	return func(e *Engine) {
		if l != nil {
			e.locker = l
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// New returns an engine backed by store that publishes to sink. A nil sink
// discards events.
func New(store Store, sink events.Sink, opts ...Option) *Engine {
	if sink == nil {
		sink = events.Discard
	}
	e := &Engine{
		store:  store,
		sink:   sink,
		hasher: encoding.UniverseID,
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
		locker: noopLocker{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Create seeds a new DefaultWidth x DefaultHeight universe owned by caller,
// stores it under its content identifier and publishes a created event.
//
// Creating twice with the same caller yields the same identifier; the
// second write resets that universe to the seed state.
func (e *Engine) Create(ctx context.Context, caller string) (universe.ID, universe.Universe, error) {
	ctx, span := e.tracer.Start(ctx, "universe.create", trace.WithAttributes(
		attribute.String("universe.caller", caller),
	))
	defer span.End()

	u, err := universe.Seed(universe.DefaultWidth, universe.DefaultHeight, caller)
	if err != nil {
		return "", universe.Universe{}, spanError(span, fmt.Errorf("seed universe: %w", err))
	}
	id, err := e.hasher(u)
	if err != nil {
		return "", universe.Universe{}, spanError(span, fmt.Errorf("derive universe id: %w", err))
	}
	span.SetAttributes(attribute.String("universe.id", id.String()))

	unlock := e.locker.Lock(id.String())
	defer unlock()

	if err := e.store.PutUniverse(ctx, id, u); err != nil {
		return "", universe.Universe{}, spanError(span, fmt.Errorf("store universe %s: %w", id, err))
	}

	e.publish(ctx, events.Event{
		Kind:       events.KindCreated,
		Caller:     caller,
		UniverseID: id.String(),
	})
	return id, u, nil
}

// Tick advances the universe stored under id by one generation and
// publishes a tick event. Any caller may tick any universe; the owner is
// not consulted.
func (e *Engine) Tick(ctx context.Context, caller string, id universe.ID) (universe.Universe, error) {
	ctx, span := e.tracer.Start(ctx, "universe.tick", trace.WithAttributes(
		attribute.String("universe.caller", caller),
		attribute.String("universe.id", id.String()),
	))
	defer span.End()

	unlock := e.locker.Lock(id.String())
	defer unlock()

	current, err := e.load(ctx, id)
	if err != nil {
		return universe.Universe{}, spanError(span, err)
	}

	next := current.Clone()
	next.Cells = current.Next()
	span.SetAttributes(attribute.Int("universe.live_cells", next.LiveCells()))

	if err := e.store.PutUniverse(ctx, id, next); err != nil {
		return universe.Universe{}, spanError(span, fmt.Errorf("store universe %s: %w", id, err))
	}

	e.publish(ctx, events.Event{
		Kind:       events.KindTick,
		Caller:     caller,
		UniverseID: id.String(),
	})
	return next, nil
}

// Get returns the universe stored under id.
func (e *Engine) Get(ctx context.Context, id universe.ID) (universe.Universe, error) {
	return e.load(ctx, id)
}

// List returns one page of stored universes ordered by identifier.
func (e *Engine) List(ctx context.Context, pageSize int, pageToken string) (storage.UniversePage, error) {
	page, err := e.store.ListUniverses(ctx, pageSize, pageToken)
	if err != nil {
		return storage.UniversePage{}, fmt.Errorf("list universes: %w", err)
	}
	return page, nil
}

func (e *Engine) load(ctx context.Context, id universe.ID) (universe.Universe, error) {
	u, err := e.store.GetUniverse(ctx, id)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			return universe.Universe{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("universe %s not found", id),
				map[string]string{"ID": id.String()},
			)
		}
		return universe.Universe{}, fmt.Errorf("load universe %s: %w", id, err)
	}
	if err := u.Validate(); err != nil {
		return universe.Universe{}, apperrors.Wrap(apperrors.CodeUniverseCorrupt, fmt.Sprintf("universe %s is corrupt", id), err)
	}
	return u, nil
}

// publish delivers evt after the state change it describes is stored.
// Delivery failures are logged and never undo the change.
func (e *Engine) publish(ctx context.Context, evt events.Event) {
	evt.Timestamp = e.now().UTC()
	if err := e.sink.Publish(ctx, evt); err != nil {
		log.Printf("publish %s event for universe %s: %v", evt.Kind, evt.UniverseID, err)
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

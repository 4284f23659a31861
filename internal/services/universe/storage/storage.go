package storage

import (
	"context"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/core/filter"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// UniverseStore persists universes by identifier.
type UniverseStore interface {
	// GetUniverse returns ErrNotFound when id has never been stored.
	GetUniverse(ctx context.Context, id universe.ID) (universe.Universe, error)
	// PutUniverse inserts or replaces the universe stored under id.
	PutUniverse(ctx context.Context, id universe.ID, u universe.Universe) error
	// ListUniverses returns universes ordered by id, starting after
	// pageToken when it is non-empty.
	ListUniverses(ctx context.Context, pageSize int, pageToken string) (UniversePage, error)
}

// EventStore is the append-only event journal.
type EventStore interface {
	events.Appender
	// ListEvents returns events ordered by sequence.
	ListEvents(ctx context.Context, query EventQuery) (EventPage, error)
}

// CounterStore holds the single counter value.
type CounterStore interface {
	// GetCounter returns ErrNotFound until a value has been stored.
	GetCounter(ctx context.Context) (uint32, error)
	PutCounter(ctx context.Context, value uint32) error
}

// Store combines every persistence concern of the service.
type Store interface {
	UniverseStore
	EventStore
	CounterStore
	Close() error
}

// UniverseRecord is a stored universe with its identifier.
type UniverseRecord struct {
	ID       universe.ID
	Universe universe.Universe
}

// UniversePage is one page of ListUniverses.
type UniversePage struct {
	Universes     []UniverseRecord
	NextPageToken string
}

// EventQuery selects a page of journal events.
type EventQuery struct {
	// AfterSeq excludes events with Seq <= AfterSeq.
	AfterSeq uint64
	// PageSize bounds the number of returned events.
	PageSize int
	// Filter further restricts the events returned.
	Filter filter.Condition
}

// EventPage is one page of ListEvents.
type EventPage struct {
	Events []events.Event
	// HasMore reports whether events beyond the last returned one match.
	HasMore bool
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

var errMemoryRequired = errors.New("memory store is required")

// Memory keeps every record in process memory.
type Memory struct {
	mu        sync.Mutex
	universes map[universe.ID]universe.Universe
	journal   []events.Event
	counter   *uint32
	now       func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		universes: make(map[universe.ID]universe.Universe),
		now:       time.Now,
	}
}

func (m *Memory) check(ctx context.Context) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if m == nil {
		return errMemoryRequired
	}
	return nil
}

// GetUniverse implements UniverseStore.
func (m *Memory) GetUniverse(ctx context.Context, id universe.ID) (universe.Universe, error) {
	if err := m.check(ctx); err != nil {
		return universe.Universe{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.universes[id]
	if !ok {
		return universe.Universe{}, ErrNotFound
	}
	return u.Clone(), nil
}

// PutUniverse implements UniverseStore.
func (m *Memory) PutUniverse(ctx context.Context, id universe.ID, u universe.Universe) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.universes[id] = u.Clone()
	return nil
}

// ListUniverses implements UniverseStore.
func (m *Memory) ListUniverses(ctx context.Context, pageSize int, pageToken string) (UniversePage, error) {
	if err := m.check(ctx); err != nil {
		return UniversePage{}, err
	}
	if pageSize <= 0 {
		return UniversePage{}, errors.New("page size must be greater than zero")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]universe.ID, 0, len(m.universes))
	for id := range m.universes {
		if pageToken == "" || string(id) > pageToken {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var page UniversePage
	for i, id := range ids {
		if i == pageSize {
			page.NextPageToken = string(ids[i-1])
			break
		}
		page.Universes = append(page.Universes, UniverseRecord{ID: id, Universe: m.universes[id].Clone()})
	}
	return page, nil
}

// AppendEvent implements events.Appender.
func (m *Memory) AppendEvent(ctx context.Context, evt events.Event) (events.Event, error) {
	if err := m.check(ctx); err != nil {
		return events.Event{}, err
	}
	if !evt.Kind.Valid() {
		return events.Event{}, fmt.Errorf("unknown event kind %q", evt.Kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	evt.Seq = uint64(len(m.journal)) + 1
	if evt.Timestamp.IsZero() {
		evt.Timestamp = m.now().UTC()
	}
	m.journal = append(m.journal, evt)
	return evt, nil
}

// ListEvents implements EventStore.
func (m *Memory) ListEvents(ctx context.Context, query EventQuery) (EventPage, error) {
	if err := m.check(ctx); err != nil {
		return EventPage{}, err
	}
	if query.PageSize <= 0 {
		return EventPage{}, errors.New("page size must be greater than zero")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var page EventPage
	for _, evt := range m.journal {
		if evt.Seq <= query.AfterSeq || !query.Filter.Matches(evt) {
			continue
		}
		if len(page.Events) == query.PageSize {
			page.HasMore = true
			break
		}
		page.Events = append(page.Events, evt)
	}
	return page, nil
}

// GetCounter implements CounterStore.
func (m *Memory) GetCounter(ctx context.Context) (uint32, error) {
	if err := m.check(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counter == nil {
		return 0, ErrNotFound
	}
	return *m.counter, nil
}

// PutCounter implements CounterStore.
func (m *Memory) PutCounter(ctx context.Context, value uint32) error {
	if err := m.check(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter = &value
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// AppendEvent implements events.Appender.
func (s *Store) AppendEvent(ctx context.Context, evt events.Event) (events.Event, error) {
	if err := s.check(ctx); err != nil {
		return events.Event{}, err
	}
	if !evt.Kind.Valid() {
		return events.Event{}, fmt.Errorf("unknown event kind %q", evt.Kind)
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now()
	}
	evt.Timestamp = fromMillis(toMillis(evt.Timestamp))

	result, err := s.execWithRetry(ctx, `
INSERT INTO universe_events (kind, caller, universe_id, value, timestamp)
VALUES (?, ?, ?, ?, ?)`,
		string(evt.Kind), evt.Caller, evt.UniverseID, int64(evt.Value), toMillis(evt.Timestamp),
	)
	if err != nil {
		return events.Event{}, fmt.Errorf("append event: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return events.Event{}, fmt.Errorf("read event seq: %w", err)
	}
	evt.Seq = uint64(seq)
	return evt, nil
}

// ListEvents implements storage.EventStore.
func (s *Store) ListEvents(ctx context.Context, query storage.EventQuery) (storage.EventPage, error) {
	if err := s.check(ctx); err != nil {
		return storage.EventPage{}, err
	}
	if query.PageSize <= 0 {
		return storage.EventPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT seq, kind, caller, universe_id, value, timestamp FROM universe_events WHERE seq > ?`)
	params := []any{int64(query.AfterSeq)}
	if !query.Filter.Empty() {
		sb.WriteString(" AND ")
		sb.WriteString(query.Filter.Clause)
		params = append(params, query.Filter.Params...)
	}
	sb.WriteString(" ORDER BY seq LIMIT ?")
	params = append(params, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, sb.String(), params...)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var page storage.EventPage
	for rows.Next() {
		if len(page.Events) == query.PageSize {
			page.HasMore = true
			break
		}
		var (
			seq, value, ts int64
			kind           string
			evt            events.Event
		)
		if err := rows.Scan(&seq, &kind, &evt.Caller, &evt.UniverseID, &value, &ts); err != nil {
			return storage.EventPage{}, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Kind = events.Kind(kind)
		evt.Value = uint32(value)
		evt.Timestamp = fromMillis(ts)
		page.Events = append(page.Events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

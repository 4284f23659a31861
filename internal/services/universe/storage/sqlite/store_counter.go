package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// GetCounter implements storage.CounterStore.
func (s *Store) GetCounter(ctx context.Context) (uint32, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	var value int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM counter WHERE id = 1`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	return uint32(value), nil
}

// PutCounter implements storage.CounterStore.
func (s *Store) PutCounter(ctx context.Context, value uint32) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	_, err := s.execWithRetry(ctx, `
INSERT INTO counter (id, value, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		int64(value), toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("put counter: %w", err)
	}
	return nil
}

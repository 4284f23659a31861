package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// GetUniverse implements storage.UniverseStore.
func (s *Store) GetUniverse(ctx context.Context, id universe.ID) (universe.Universe, error) {
	if err := s.check(ctx); err != nil {
		return universe.Universe{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT width, height, owner, cells FROM universes WHERE id = ?`,
		string(id),
	)
	u, err := scanUniverse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return universe.Universe{}, storage.ErrNotFound
	}
	if err != nil {
		return universe.Universe{}, fmt.Errorf("get universe %s: %w", id, err)
	}
	return u, nil
}

// PutUniverse implements storage.UniverseStore. Dimensions and owner are
// only written on insert; later writes replace the cells.
func (s *Store) PutUniverse(ctx context.Context, id universe.ID, u universe.Universe) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(string(id)) == "" {
		return apperrors.New(apperrors.CodeUniverseIDInvalid, "universe id is required")
	}
	if err := u.Validate(); err != nil {
		return err
	}

	now := toMillis(s.now())
	_, err := s.execWithRetry(ctx, `
INSERT INTO universes (id, width, height, owner, cells, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    cells = excluded.cells,
    updated_at = excluded.updated_at`,
		string(id), int64(u.Width), int64(u.Height), u.Owner, packCells(u.Cells), now, now,
	)
	if err != nil {
		return fmt.Errorf("put universe %s: %w", id, err)
	}
	return nil
}

// ListUniverses implements storage.UniverseStore.
func (s *Store) ListUniverses(ctx context.Context, pageSize int, pageToken string) (storage.UniversePage, error) {
	if err := s.check(ctx); err != nil {
		return storage.UniversePage{}, err
	}
	if pageSize <= 0 {
		return storage.UniversePage{}, fmt.Errorf("page size must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, width, height, owner, cells FROM universes
WHERE id > ?
ORDER BY id
LIMIT ?`,
		pageToken, pageSize+1,
	)
	if err != nil {
		return storage.UniversePage{}, fmt.Errorf("list universes: %w", err)
	}
	defer rows.Close()

	var page storage.UniversePage
	for rows.Next() {
		if len(page.Universes) == pageSize {
			page.NextPageToken = string(page.Universes[len(page.Universes)-1].ID)
			break
		}
		var id string
		var width, height int64
		var owner string
		var cells []byte
		if err := rows.Scan(&id, &width, &height, &owner, &cells); err != nil {
			return storage.UniversePage{}, fmt.Errorf("scan universe: %w", err)
		}
		u, err := decodeUniverse(width, height, owner, cells)
		if err != nil {
			return storage.UniversePage{}, fmt.Errorf("decode universe %s: %w", id, err)
		}
		page.Universes = append(page.Universes, storage.UniverseRecord{ID: universe.ID(id), Universe: u})
	}
	if err := rows.Err(); err != nil {
		return storage.UniversePage{}, fmt.Errorf("list universes: %w", err)
	}
	return page, nil
}

func scanUniverse(row *sql.Row) (universe.Universe, error) {
	var width, height int64
	var owner string
	var cells []byte
	if err := row.Scan(&width, &height, &owner, &cells); err != nil {
		return universe.Universe{}, err
	}
	return decodeUniverse(width, height, owner, cells)
}

// packCells stores each cell as one byte.
func packCells(cells []universe.Cell) []byte {
	packed := make([]byte, len(cells))
	for i, c := range cells {
		packed[i] = byte(c)
	}
	return packed
}

func decodeUniverse(width, height int64, owner string, packed []byte) (universe.Universe, error) {
	if width <= 0 || height <= 0 || width > int64(^uint32(0)) || height > int64(^uint32(0)) {
		return universe.Universe{}, apperrors.New(apperrors.CodeUniverseCorrupt, "stored universe has invalid dimensions")
	}
	cells := make([]universe.Cell, len(packed))
	for i, b := range packed {
		cells[i] = universe.Cell(b)
	}
	u := universe.Universe{
		Width:  uint32(width),
		Height: uint32(height),
		Cells:  cells,
		Owner:  owner,
	}
	if err := u.Validate(); err != nil {
		return universe.Universe{}, apperrors.Wrap(apperrors.CodeUniverseCorrupt, "stored universe is corrupt", err)
	}
	return u, nil
}

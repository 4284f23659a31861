package encoding

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
)

// Record is the canonical shape of a universe used for hashing and for
// the wire. Cells are a string of '0' and '1' digits in row-major order.
type Record struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Cells  string `json:"cells"`
	Owner  string `json:"owner"`
}

// EncodeCells renders cells as a digit string.
func EncodeCells(cells []universe.Cell) string {
	var b strings.Builder
	b.Grow(len(cells))
	for _, c := range cells {
		if c == universe.Alive {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// DecodeCells parses a digit string produced by EncodeCells.
func DecodeCells(s string) ([]universe.Cell, error) {
	cells := make([]universe.Cell, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			cells[i] = universe.Dead
		case '1':
			cells[i] = universe.Alive
		default:
			return nil, apperrors.WithMetadata(
				apperrors.CodeUniverseCorrupt,
				fmt.Sprintf("invalid cell %q at %d", s[i], i),
				map[string]string{"Index": strconv.Itoa(i)},
			)
		}
	}
	return cells, nil
}

// NewRecord builds the canonical record of u.
func NewRecord(u universe.Universe) Record {
	return Record{
		Width:  u.Width,
		Height: u.Height,
		Cells:  EncodeCells(u.Cells),
		Owner:  u.Owner,
	}
}

// Universe converts the record back into a validated universe.
func (r Record) Universe() (universe.Universe, error) {
	cells, err := DecodeCells(r.Cells)
	if err != nil {
		return universe.Universe{}, err
	}
	u := universe.Universe{
		Width:  r.Width,
		Height: r.Height,
		Cells:  cells,
		Owner:  r.Owner,
	}
	if err := u.Validate(); err != nil {
		return universe.Universe{}, err
	}
	return u, nil
}

// UniverseID derives the content identifier of u from its full record.
// Two universes with identical width, height, cells and owner share an ID.
func UniverseID(u universe.Universe) (universe.ID, error) {
	sum, err := ContentHash(NewRecord(u))
	if err != nil {
		return "", fmt.Errorf("hash universe: %w", err)
	}
	return universe.ID(sum), nil
}

// ValidID reports whether s has the shape of a universe identifier.
func ValidID(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

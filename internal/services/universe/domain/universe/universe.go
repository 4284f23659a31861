package universe

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
)

// Cell is the state of one grid position.
type Cell uint8

const (
	// Dead marks an empty cell.
	Dead Cell = 0
	// Alive marks a populated cell.
	Alive Cell = 1
)

// ID is the content-derived identifier of a universe.
type ID string

// String returns the identifier as stored.
func (id ID) String() string {
	return string(id)
}

// Coordinate addresses one cell by row and column.
type Coordinate struct {
	Row    uint32
	Column uint32
}

var (
	// ErrInvalidDimensions indicates a zero width or height.
	ErrInvalidDimensions = apperrors.New(apperrors.CodeUniverseInvalidDimensions, "universe width and height must be greater than zero")
	// ErrDimensionOverflow indicates width*height does not fit the cell index space.
	ErrDimensionOverflow = apperrors.New(apperrors.CodeUniverseDimensionOverflow, "universe width*height overflows")
)

// Universe is one toroidal grid simulation.
//
// Cells are stored row-major: the cell at (row, column) lives at
// row*Width+column. Width and Height are fixed for the lifetime of the
// universe; Owner is set once at creation.
type Universe struct {
	Width  uint32
	Height uint32
	Cells  []Cell
	Owner  string
}

// New returns an all-dead universe of the given size.
func New(width, height uint32, owner string) (Universe, error) {
	size, err := CellCount(width, height)
	if err != nil {
		return Universe{}, err
	}
	return Universe{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, size),
		Owner:  owner,
	}, nil
}

// CellCount returns width*height, rejecting degenerate or overflowing sizes.
func CellCount(width, height uint32) (int, error) {
	if width == 0 || height == 0 {
		return 0, ErrInvalidDimensions
	}
	size := uint64(width) * uint64(height)
	if size > math.MaxUint32 || size > uint64(math.MaxInt) {
		return 0, apperrors.WithMetadata(
			apperrors.CodeUniverseDimensionOverflow,
			"universe width*height overflows",
			map[string]string{
				"Width":  strconv.FormatUint(uint64(width), 10),
				"Height": strconv.FormatUint(uint64(height), 10),
			},
		)
	}
	return int(size), nil
}

// Validate checks the structural invariants of a universe loaded from
// outside the engine.
func (u Universe) Validate() error {
	size, err := CellCount(u.Width, u.Height)
	if err != nil {
		return err
	}
	if len(u.Cells) != size {
		return apperrors.WithMetadata(
			apperrors.CodeUniverseCorrupt,
			"universe cell count does not match dimensions",
			map[string]string{
				"Expected": strconv.Itoa(size),
				"Actual":   strconv.Itoa(len(u.Cells)),
			},
		)
	}
	for i, cell := range u.Cells {
		if cell != Dead && cell != Alive {
			return apperrors.WithMetadata(
				apperrors.CodeUniverseCorrupt,
				"universe cell holds an unknown state",
				map[string]string{"Index": strconv.Itoa(i)},
			)
		}
	}
	return nil
}

// Index maps (row, column) to a position in Cells.
// Callers guarantee row < Height and column < Width.
func (u Universe) Index(row, column uint32) int {
	return int(row)*int(u.Width) + int(column)
}

// SetCells marks every addressed cell alive.
func (u Universe) SetCells(coords ...Coordinate) {
	for _, c := range coords {
		u.Cells[u.Index(c.Row, c.Column)] = Alive
	}
}

// LiveNeighborCount counts the live cells among the eight neighbours of
// (row, column). The grid wraps at every edge.
func (u Universe) LiveNeighborCount(row, column uint32) uint8 {
	var north, south, west, east uint32
	if row == 0 {
		north = u.Height - 1
	} else {
		north = row - 1
	}
	if row == u.Height-1 {
		south = 0
	} else {
		south = row + 1
	}
	if column == 0 {
		west = u.Width - 1
	} else {
		west = column - 1
	}
	if column == u.Width-1 {
		east = 0
	} else {
		east = column + 1
	}

	var count uint8
	count += uint8(u.Cells[u.Index(north, west)])
	count += uint8(u.Cells[u.Index(north, column)])
	count += uint8(u.Cells[u.Index(north, east)])
	count += uint8(u.Cells[u.Index(row, west)])
	count += uint8(u.Cells[u.Index(row, east)])
	count += uint8(u.Cells[u.Index(south, west)])
	count += uint8(u.Cells[u.Index(south, column)])
	count += uint8(u.Cells[u.Index(south, east)])
	return count
}

// NextCell applies the life rule to a cell with n live neighbours.
func NextCell(c Cell, n uint8) Cell {
	switch {
	case c == Alive && n < 2:
		return Dead
	case c == Alive && (n == 2 || n == 3):
		return Alive
	case c == Alive && n > 3:
		return Dead
	case c == Dead && n == 3:
		return Alive
	default:
		return c
	}
}

// Next computes the following generation into a new buffer. The receiver
// is only read, so every neighbour count reflects the current generation.
func (u Universe) Next() []Cell {
	next := make([]Cell, len(u.Cells))
	for row := uint32(0); row < u.Height; row++ {
		for column := uint32(0); column < u.Width; column++ {
			idx := u.Index(row, column)
			next[idx] = NextCell(u.Cells[idx], u.LiveNeighborCount(row, column))
		}
	}
	return next
}

// LiveCells returns the number of alive cells.
func (u Universe) LiveCells() int {
	alive := 0
	for _, c := range u.Cells {
		if c == Alive {
			alive++
		}
	}
	return alive
}

// Clone returns a deep copy so callers can mutate cells safely.
func (u Universe) Clone() Universe {
	cloned := u
	if u.Cells != nil {
		cloned.Cells = make([]Cell, len(u.Cells))
		copy(cloned.Cells, u.Cells)
	}
	return cloned
}

// String renders one line per row, ■ for alive and □ for dead.
func (u Universe) String() string {
	var b strings.Builder
	for row := uint32(0); row < u.Height; row++ {
		for column := uint32(0); column < u.Width; column++ {
			if u.Cells[u.Index(row, column)] == Alive {
				b.WriteRune('■')
			} else {
				b.WriteRune('□')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

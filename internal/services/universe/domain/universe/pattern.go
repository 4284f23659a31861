package universe

const (
	// DefaultWidth is the width of every universe built by Create.
	DefaultWidth uint32 = 64
	// DefaultHeight is the height of every universe built by Create.
	DefaultHeight uint32 = 64
)

// InitialPattern returns the seed generation for a grid of the given size:
// the cell at flat position i is alive when i is even or a multiple of 7.
// The pattern depends only on the size, never on the caller.
func InitialPattern(width, height uint32) ([]Cell, error) {
	size, err := CellCount(width, height)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, size)
	for i := range cells {
		if i%2 == 0 || i%7 == 0 {
			cells[i] = Alive
		}
	}
	return cells, nil
}

// Seed returns a universe of the given size populated with InitialPattern.
func Seed(width, height uint32, owner string) (Universe, error) {
	cells, err := InitialPattern(width, height)
	if err != nil {
		return Universe{}, err
	}
	return Universe{
		Width:  width,
		Height: height,
		Cells:  cells,
		Owner:  owner,
	}, nil
}

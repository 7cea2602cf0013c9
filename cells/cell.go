package cells

const (
	deadGlyph  = "◻"
	aliveGlyph = "◼"
)

// Cell is the state of a single grid position, stored as one byte so a whole
// generation can be handed out as a contiguous buffer. The numeric values are
// read directly by external renderers.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// IsAlive reports whether the cell is Alive
func (c Cell) IsAlive() bool {
	return c == Alive
}

// Valid reports whether c is one of the two defined states
func (c Cell) Valid() bool {
	return c == Dead || c == Alive
}

// String returns the glyph used for text rendering
func (c Cell) String() string {
	if c == Alive {
		return aliveGlyph
	}
	return deadGlyph
}

package model

import (
	"crypto/md5"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/cells"
	"github.com/sheikhrachel/go-life/rules"
)

var (
	// ErrInvalidDimension is returned when width or height is zero
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrSizeOverflow is returned when width*height does not fit the uint32 index
	ErrSizeOverflow = errors.New("cell count overflows index type")
	// ErrCellCount is returned when an initial buffer has the wrong length
	ErrCellCount = errors.New("cell count does not match dimensions")
	// ErrInvalidCell is returned when an initial buffer holds a value other than Dead or Alive
	ErrInvalidCell = errors.New("invalid cell value")
	// ErrOutOfRange is returned for coordinates outside the universe
	ErrOutOfRange = errors.New("coordinate out of range")
)

// Coord addresses a single cell by row and column
type Coord struct {
	Row uint32
	Col uint32
}

// Option configures a Universe at construction
type Option func(u *Universe)

// WithBufferPool makes Tick draw its next-generation buffer from p and
// return retired buffers to it
func WithBufferPool(p *BufferPool) Option {
	return func(u *Universe) {
		u.pool = p
	}
}

// Universe is a fixed-size toroidal Game of Life grid.
//
// Cells are stored row-major: the cell at (row, col) lives at
// row*width + col. The grid wraps on both axes, so every cell has exactly
// eight neighbors, even on 1x1 and 2x2 grids where the neighbors alias.
//
// A Universe has a single owner and is not safe for concurrent use.
type Universe struct {
	width      uint32
	height     uint32
	cells      []cells.Cell
	generation uint64
	pool       *BufferPool
}

// New creates a universe seeded with the default deterministic pattern:
// index i is Alive when i is even or divisible by 7
func New(width, height uint32, opts ...Option) (*Universe, error) {
	u, err := newUniverse(width, height, opts)
	if err != nil {
		return nil, err
	}
	for i := range u.cells {
		if i%2 == 0 || i%7 == 0 {
			u.cells[i] = cells.Alive
		}
	}
	return u, nil
}

// NewEmpty creates a universe with every cell Dead
func NewEmpty(width, height uint32, opts ...Option) (*Universe, error) {
	return newUniverse(width, height, opts)
}

// NewWithCells creates a universe from an explicit row-major initial buffer.
// The buffer is copied.
func NewWithCells(width, height uint32, initial []cells.Cell, opts ...Option) (*Universe, error) {
	u, err := newUniverse(width, height, opts)
	if err != nil {
		return nil, err
	}
	if len(initial) != len(u.cells) {
		u.release()
		return nil, errors.Wrapf(ErrCellCount, "[NewWithCells] got %d cells, want %d", len(initial), len(u.cells))
	}
	for i, c := range initial {
		if !c.Valid() {
			u.release()
			return nil, errors.Wrapf(ErrInvalidCell, "[NewWithCells] value %d at index %d", c, i)
		}
	}
	copy(u.cells, initial)
	return u, nil
}

func newUniverse(width, height uint32, opts []Option) (*Universe, error) {
	if width == 0 {
		return nil, errors.Wrap(ErrInvalidDimension, "[New] width must be positive")
	}
	if height == 0 {
		return nil, errors.Wrap(ErrInvalidDimension, "[New] height must be positive")
	}
	size := uint64(width) * uint64(height)
	if size > math.MaxUint32 || size > uint64(math.MaxInt) {
		return nil, errors.Wrapf(ErrSizeOverflow, "[New] %dx%d", width, height)
	}

	u := &Universe{width: width, height: height}
	for _, opt := range opts {
		opt(u)
	}
	u.cells = u.allocate(int(size))
	return u, nil
}

// allocate returns a zeroed buffer of n cells, from the pool when one is attached
func (u *Universe) allocate(n int) []cells.Cell {
	if u.pool != nil {
		return u.pool.Get(n)
	}
	return make([]cells.Cell, n)
}

// release hands the current buffer back to the pool
func (u *Universe) release() {
	if u.pool != nil && u.cells != nil {
		u.pool.Put(u.cells)
	}
	u.cells = nil
}

// Width returns the number of columns
func (u *Universe) Width() uint32 {
	return u.width
}

// Height returns the number of rows
func (u *Universe) Height() uint32 {
	return u.height
}

// Generation returns the number of ticks applied since creation
func (u *Universe) Generation() uint64 {
	return u.generation
}

// Index translates a row and column into a position in the cell buffer
func (u *Universe) Index(row, col uint32) uint32 {
	return row*u.width + col
}

// Get returns the state of the cell at row, col.
// Coordinates wrap like neighbor lookups, so Get(row+Height(), col) equals Get(row, col);
// use SetCells when out of range coordinates must be rejected.
func (u *Universe) Get(row, col uint32) cells.Cell {
	return u.cells[u.Index(row%u.height, col%u.width)]
}

// LiveNeighborCount counts Alive cells among the eight wrapped neighbors of row, col.
// Cell values are summed directly, which relies on Dead being 0 and Alive 1.
// On grids narrower than three cells a neighbor may be counted more than once.
func (u *Universe) LiveNeighborCount(row, col uint32) uint8 {
	var (
		count  uint8
		height = uint64(u.height)
		width  = uint64(u.width)
	)
	for dr := uint64(0); dr < 3; dr++ {
		for dc := uint64(0); dc < 3; dc++ {
			if dr == 1 && dc == 1 {
				continue
			}
			nr := uint32((uint64(row) + height - 1 + dr) % height)
			nc := uint32((uint64(col) + width - 1 + dc) % width)
			count += uint8(u.cells[u.Index(nr, nc)])
		}
	}
	return count
}

// Tick advances the universe by one generation.
// The next generation is computed into a separate buffer from the unchanged
// current one and then replaces it, so slices returned by Cells before the
// call must not be used afterwards.
func (u *Universe) Tick() {
	next := u.allocate(len(u.cells))
	for row := uint32(0); row < u.height; row++ {
		for col := uint32(0); col < u.width; col++ {
			idx := u.Index(row, col)
			next[idx] = rules.ApplyConwayRules(u.cells[idx], u.LiveNeighborCount(row, col))
		}
	}
	u.replace(next)
	u.generation++
}

// Cells exposes the current generation without copying.
// The slice has length Width()*Height(), is laid out row-major and holds only
// Dead (0) and Alive (1). It is only valid until the next call to Tick,
// SetCells, Toggle or Clear and must not be modified.
func (u *Universe) Cells() []cells.Cell {
	return u.cells
}

// Bytes returns a copy of the current generation as raw bytes
func (u *Universe) Bytes() []byte {
	b := make([]byte, len(u.cells))
	for i, c := range u.cells {
		b[i] = byte(c)
	}
	return b
}

// SetCells marks the given cells Alive. Nothing changes if any coordinate is out of range.
func (u *Universe) SetCells(coords ...Coord) error {
	for _, c := range coords {
		if c.Row >= u.height || c.Col >= u.width {
			return errors.Wrapf(ErrOutOfRange, "[SetCells] (%d, %d) outside %dx%d", c.Row, c.Col, u.width, u.height)
		}
	}
	u.detach()
	for _, c := range coords {
		u.cells[u.Index(c.Row, c.Col)] = cells.Alive
	}
	return nil
}

// Toggle inverts the cell at row, col; out of range coordinates are ignored
func (u *Universe) Toggle(row, col uint32) {
	if row >= u.height || col >= u.width {
		return
	}
	u.detach()
	idx := u.Index(row, col)
	u.cells[idx] ^= cells.Alive
}

// Clear kills every cell
func (u *Universe) Clear() {
	u.replace(u.allocate(len(u.cells)))
}

// detach replaces the current buffer with a copy before an in-place edit,
// so edits never write through a slice already handed out by Cells
func (u *Universe) detach() {
	next := u.allocate(len(u.cells))
	copy(next, u.cells)
	u.replace(next)
}

// replace retires the current buffer and installs next
func (u *Universe) replace(next []cells.Cell) {
	u.release()
	u.cells = next
}

// LiveCells returns the total number of Alive cells
func (u *Universe) LiveCells() (count int) {
	for _, c := range u.cells {
		count += int(c)
	}
	return
}

// Fingerprint returns an MD5 hash of the current generation
func (u *Universe) Fingerprint() string {
	h := md5.New()
	h.Write(u.Bytes())
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Render returns the current generation as text: one line per row,
// one glyph per cell, every line terminated by a newline
func (u *Universe) Render() string {
	var b strings.Builder
	b.Grow(len(u.cells)*len(cells.Alive.String()) + int(u.height))
	for row := uint32(0); row < u.height; row++ {
		line := u.cells[row*u.width : (row+1)*u.width]
		for _, c := range line {
			b.WriteString(c.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String implements fmt.Stringer
func (u *Universe) String() string {
	return u.Render()
}

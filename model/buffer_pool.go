package model

import (
	"sync"

	"github.com/sheikhrachel/go-life/cells"
)

// BufferPool recycles cell buffers between generations
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]cells.Cell)
			},
		},
	}
}

// Get retrieves a buffer of n Dead cells from the pool
func (p *BufferPool) Get(n int) []cells.Cell {
	bp := p.pool.Get().(*[]cells.Cell)
	buf := *bp
	if cap(buf) < n {
		return make([]cells.Cell, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// Put returns a buffer to the pool for reuse
func (p *BufferPool) Put(buf []cells.Cell) {
	if buf == nil {
		return
	}
	p.pool.Put(&buf)
}

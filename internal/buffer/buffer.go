// Package buffer contains pools of byte buffers reused to serialize the
// messages written to connections.
package buffer

import "sync"

const (
	// DefaultSize is the granularity of buffer capacities.
	DefaultSize = 4096
	// MaxSize is the capacity above which buffers are not returned to their
	// pool, so large file contents are not retained after being written.
	MaxSize = 1 << 20
)

// Buffer is a byte slice held by a Pool.
type Buffer struct{ Data []byte }

// Pool is a pool of buffers. The zero value is ready to use.
type Pool struct{ pool sync.Pool }

// Get returns an empty buffer with a capacity of at least size bytes.
func (p *Pool) Get(size int) *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	if b != nil {
		if size <= cap(b.Data) {
			b.Data = b.Data[:0]
			return b
		}
		p.Put(b)
	}
	return New(size)
}

// Put returns b to the pool.
func (p *Pool) Put(b *Buffer) {
	if b != nil && cap(b.Data) <= MaxSize {
		p.pool.Put(b)
	}
}

// New allocates an empty buffer with a capacity of at least size bytes.
func New(size int) *Buffer {
	return &Buffer{Data: make([]byte, 0, Align(size, DefaultSize))}
}

// Release puts the buffer pointed to by buf back to pool and clears buf.
func Release(buf **Buffer, pool *Pool) {
	if b := *buf; b != nil {
		*buf = nil
		pool.Put(b)
	}
}

// Align rounds size up to a multiple of to.
func Align(size, to int) int {
	return ((size + (to - 1)) / to) * to
}

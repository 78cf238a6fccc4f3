// Package bufpool provides a pool of fixed-capacity byte buffers that are
// rented by producers and returned by the writer once flushed.
package bufpool

import (
	"sync"
	"sync/atomic"
)

// Buffer is a fixed-capacity byte array plus a valid-length cursor.
// Only bytes in [0, Len()) are meaningful.
//
// A Buffer has exactly one owner at a time: the pool, a producer, the
// handoff queue or the writer. The idle flag catches hand-off bugs.
type Buffer struct {
	data []byte
	n    int
	idle atomic.Bool
}

// Bytes returns the valid prefix.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

// Free returns the unused tail, starting at the cursor.
func (b *Buffer) Free() []byte { return b.data[b.n:] }

// Len returns the number of valid bytes.
func (b *Buffer) Len() int { return b.n }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Advance moves the cursor forward by n bytes written into Free().
func (b *Buffer) Advance(n int) {
	if n < 0 || b.n+n > len(b.data) {
		panic("bufpool: Advance past buffer capacity")
	}
	b.n += n
}

// Stats counts pool traffic.
type Stats struct {
	Rents   int64
	Returns int64
	Allocs  int64 // buffers created because none was idle
}

// Outstanding is the number of buffers currently outside the pool.
func (s Stats) Outstanding() int64 { return s.Rents - s.Returns }

// Pool hands out buffers of one fixed capacity. Safe for concurrent use.
// The number of outstanding buffers is not bounded.
type Pool struct {
	capacity int
	pool     sync.Pool

	rents   atomic.Int64
	returns atomic.Int64
	allocs  atomic.Int64
}

// New creates a pool of buffers with the given capacity.
// Buffers are allocated lazily on first rent.
func New(capacity int) *Pool {
	if capacity <= 0 {
		panic("bufpool: capacity must be positive")
	}
	p := &Pool{capacity: capacity}
	p.pool.New = func() any {
		p.allocs.Add(1)
		return &Buffer{data: make([]byte, capacity)}
	}
	return p
}

// Capacity returns the size of every buffer in the pool.
func (p *Pool) Capacity() int { return p.capacity }

// Rent returns an empty buffer, reusing an idle one when available.
func (p *Pool) Rent() *Buffer {
	b := p.pool.Get().(*Buffer)
	b.idle.Store(false)
	b.n = 0
	p.rents.Add(1)
	return b
}

// Return hands b back to the pool. Returning a buffer that is already idle
// is an ownership bug and panics.
func (p *Pool) Return(b *Buffer) {
	if len(b.data) != p.capacity {
		panic("bufpool: buffer does not belong to this pool")
	}
	if !b.idle.CompareAndSwap(false, true) {
		panic("bufpool: buffer returned twice")
	}
	b.n = 0
	p.returns.Add(1)
	p.pool.Put(b)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Rents:   p.rents.Load(),
		Returns: p.returns.Load(),
		Allocs:  p.allocs.Load(),
	}
}

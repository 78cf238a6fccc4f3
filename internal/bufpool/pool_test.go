package bufpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentReturnsEmptyBuffer(t *testing.T) {
	p := New(16)
	b := p.Rent()
	require.Equal(t, 0, b.Len())
	require.Equal(t, 16, b.Cap())
	require.Len(t, b.Free(), 16)

	n := copy(b.Free(), "hello")
	b.Advance(n)
	assert.Equal(t, "hello", string(b.Bytes()))
	assert.Len(t, b.Free(), 11)

	p.Return(b)
	b2 := p.Rent()
	assert.Equal(t, 0, b2.Len(), "rented buffer must start empty")
	p.Return(b2)

	s := p.Stats()
	assert.Equal(t, int64(2), s.Rents)
	assert.Equal(t, int64(2), s.Returns)
	assert.Zero(t, s.Outstanding())
}

func TestAdvancePastCapacityPanics(t *testing.T) {
	p := New(4)
	b := p.Rent()
	b.Advance(4)
	assert.Panics(t, func() { b.Advance(1) })
	assert.Panics(t, func() { b.Advance(-1) })
}

func TestDoubleReturnPanics(t *testing.T) {
	p := New(8)
	b := p.Rent()
	p.Return(b)
	assert.Panics(t, func() { p.Return(b) })
}

func TestForeignBufferPanics(t *testing.T) {
	p1 := New(8)
	p2 := New(16)
	b := p1.Rent()
	assert.Panics(t, func() { p2.Return(b) })
}

func TestColdPoolAllocatesOnce(t *testing.T) {
	p := New(32)
	b := p.Rent()
	s := p.Stats()
	assert.Equal(t, int64(1), s.Allocs)
	assert.Equal(t, int64(1), s.Outstanding())
	p.Return(b)
}

func TestConcurrentRentReturn(t *testing.T) {
	p := New(64)
	const goroutines = 8
	const iterations = 1000

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Go(func() {
			for i := range iterations {
				b := p.Rent()
				b.Free()[0] = byte(g + i)
				b.Advance(1)
				p.Return(b)
			}
		})
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, int64(goroutines*iterations), s.Rents)
	assert.Equal(t, s.Rents, s.Returns)
}

// Package handoff implements the unbounded multi-producer, single-consumer
// FIFO that carries filled buffers from producers to the writer.
package handoff

import (
	"context"
	"sync"

	genErrors "github.com/tamirms/recordgen/errors"
	"github.com/tamirms/recordgen/internal/bufpool"
)

// Item is a filled buffer in transit. Only Buf.Bytes()[:N] is written out.
type Item struct {
	Buf *bufpool.Buffer
	N   int
}

// Queue is an unbounded FIFO. Push never blocks; Pop blocks until an item
// arrives, the queue is closed and drained, or the context ends.
// Pop must only be called from a single goroutine.
type Queue struct {
	mu     sync.Mutex
	items  []Item
	head   int
	closed bool

	// notify holds at most one wake-up token for the single consumer.
	notify chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends it to the queue. Pushing after Close is an ownership bug
// (the buffer would never be written) and panics.
func (q *Queue) Push(it Item) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic(genErrors.ErrQueueClosed.Error())
	}
	q.items = append(q.items, it)
	q.mu.Unlock()
	q.wake()
}

// Pop removes the oldest item. ok is false once the queue is closed and
// empty; err is non-nil only when ctx ends first.
func (q *Queue) Pop(ctx context.Context) (it Item, ok bool, err error) {
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			it = q.items[q.head]
			q.items[q.head] = Item{}
			q.head++
			q.compactLocked()
			q.mu.Unlock()
			return it, true, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Item{}, false, nil
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return Item{}, false, ctx.Err()
		}
	}
}

// Close marks the end of input. Items already queued remain poppable.
// Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Drain removes and returns everything still queued. Used on abort so the
// caller can return the buffers to their pool.
func (q *Queue) Drain() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := append([]Item(nil), q.items[q.head:]...)
	q.items = q.items[:0]
	q.head = 0
	return out
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// compactLocked reclaims the consumed prefix once it dominates the slice.
func (q *Queue) compactLocked() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head >= 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}

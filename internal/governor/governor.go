// Package governor tracks the cumulative number of bytes produced by all
// workers and which workers have stopped.
//
// Every field is a sync/atomic value. Go atomics are sequentially
// consistent, so a worker's writes before MarkFinished (including its last
// enqueue) are visible to any goroutine that observes the flag as set.
package governor

import "sync/atomic"

// Governor is the single source of truth for "is the target reached".
type Governor struct {
	target    int64
	total     atomic.Int64
	finished  []atomic.Bool
	remaining atomic.Int64 // workers that have not yet finished
}

// New creates a governor for the given byte target and worker count.
func New(target int64, workers int) *Governor {
	g := &Governor{
		target:   target,
		finished: make([]atomic.Bool, workers),
	}
	g.remaining.Store(int64(workers))
	return g
}

// Target returns the configured byte target.
func (g *Governor) Target() int64 { return g.target }

// Add records n produced bytes and returns the new total.
func (g *Governor) Add(n int64) int64 { return g.total.Add(n) }

// Load returns the current total. Workers may read a slightly stale value;
// the overshoot that results is bounded by one buffer per worker.
func (g *Governor) Load() int64 { return g.total.Load() }

// Reached reports whether the total has met the target.
func (g *Governor) Reached() bool { return g.total.Load() >= g.target }

// Workers returns the number of tracked workers.
func (g *Governor) Workers() int { return len(g.finished) }

// MarkFinished sets worker's flag. It is idempotent and one-way. It returns
// true for exactly one call overall: the one that finished the last worker.
func (g *Governor) MarkFinished(worker int) bool {
	if !g.finished[worker].CompareAndSwap(false, true) {
		return false
	}
	return g.remaining.Add(-1) == 0
}

// Finished reports whether worker has marked itself finished.
func (g *Governor) Finished(worker int) bool { return g.finished[worker].Load() }

// AllFinished reports whether every worker has finished.
func (g *Governor) AllFinished() bool { return g.remaining.Load() == 0 }

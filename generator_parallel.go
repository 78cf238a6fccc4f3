package recordgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	genErrors "github.com/tamirms/recordgen/errors"
	"github.com/tamirms/recordgen/internal/bufpool"
	"github.com/tamirms/recordgen/internal/governor"
	"github.com/tamirms/recordgen/internal/handoff"
)

// pipeline holds the state shared by producers and the writer for one
// parallel run.
//
// Buffer ownership moves pool -> producer -> queue -> writer -> pool.
// Producers never touch a buffer after pushing it; the writer never touches
// one after returning it.
type pipeline struct {
	g     *Generator
	log   *zap.Logger
	pool  *bufpool.Pool
	gov   *governor.Governor
	queue *handoff.Queue
	out   *outputFile

	records atomic.Int64
	buffers int64 // writer-owned
}

func newPipeline(g *Generator, out *outputFile, log *zap.Logger) *pipeline {
	return &pipeline{
		g:     g,
		log:   log,
		pool:  bufpool.New(g.cfg.bufferSize),
		gov:   governor.New(g.target, g.workers),
		queue: handoff.New(),
		out:   out,
	}
}

// runParallel starts one producer per worker plus the writer and waits for
// all of them.
//
// Error handling flow:
//   - A producer or writer error cancels the errgroup context
//   - Producers check the context before each buffer; the writer's Pop
//     returns as soon as the context ends
//   - Buffers still queued after an abort go back to the pool here
func (g *Generator) runParallel(ctx context.Context, out *outputFile, res *Result, log *zap.Logger) error {
	p := newPipeline(g, out, log)

	group, gctx := errgroup.WithContext(ctx)
	for i := range g.workers {
		rng := workerRNG(g.seed, i)
		group.Go(func() error {
			return p.produce(gctx, i, rng)
		})
	}
	group.Go(func() error {
		return p.write(gctx)
	})

	err := group.Wait()

	for _, it := range p.queue.Drain() {
		p.pool.Return(it.Buf)
	}

	res.Records = p.records.Load()
	res.Buffers = p.buffers
	res.Pool = p.pool.Stats()

	if err != nil {
		return err
	}
	if !p.done() {
		return fmt.Errorf("%w: %d of %d bytes", genErrors.ErrTargetNotReached, p.gov.Load(), p.gov.Target())
	}
	return nil
}

// produce is the producer goroutine. It fills buffers with whole records
// until the shared counter reaches the target.
//
// The counter is read once per buffer. A producer may therefore finish a
// buffer that pushes the total past the target before it sees another
// producer's contribution; the overshoot is below one buffer per producer.
func (p *pipeline) produce(ctx context.Context, worker int, rng *rand.Rand) error {
	factory := p.g.factory
	maxLen := factory.MaxRecordLen()
	target := p.gov.Target()

	var produced int64
	for !p.gov.Reached() {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf := p.pool.Rent()
		observed := p.gov.Load()
		var local, records int64

		// Stop before a record could overflow the buffer; never write a
		// partial record.
		for len(buf.Free()) >= maxLen && observed+local < target {
			n := factory.Put(rng, buf.Free())
			buf.Advance(n)
			local += int64(n)
			records++
		}

		if buf.Len() > 0 {
			p.queue.Push(handoff.Item{Buf: buf, N: buf.Len()})
		} else {
			p.pool.Return(buf)
		}

		// Counted once per buffer, after it is safely enqueued.
		p.records.Add(records)
		p.gov.Add(local)
		produced += local
	}

	// The flag is set strictly after this producer's last Push, so once
	// every flag is set no further item can appear in the queue.
	if p.gov.MarkFinished(worker) {
		p.queue.Close()
	}
	p.log.Debug("producer finished", zap.Int("worker", worker), zap.Int64("bytes", produced))
	return nil
}

// write is the writer goroutine, the only code that touches the output file.
// It drains the queue in arrival order until the queue is closed and empty.
func (p *pipeline) write(ctx context.Context) error {
	for {
		it, ok, err := p.queue.Pop(ctx)
		if err != nil {
			return err
		}
		if !ok {
			// Closed by the last producer to finish and now drained.
			return nil
		}

		werr := p.out.write(it.Buf.Bytes()[:it.N])
		p.pool.Return(it.Buf)
		if werr != nil {
			return werr
		}
		p.buffers++
		p.g.progress(p.out.written)
	}
}

// done is the writer's exit condition: target reached, every producer
// finished and nothing left in flight.
func (p *pipeline) done() bool {
	return p.gov.Reached() && p.gov.AllFinished() && p.queue.Len() == 0
}

package recordgen

import (
	"context"

	"go.uber.org/zap"

	"github.com/tamirms/recordgen/internal/bufpool"
)

// runSequential fills one buffer at a time and writes it on the calling
// goroutine. It shares the record format and output path of the parallel
// strategy and exists as a single-threaded baseline.
func (g *Generator) runSequential(ctx context.Context, out *outputFile, res *Result, log *zap.Logger) error {
	pool := bufpool.New(g.cfg.bufferSize)
	rng := workerRNG(g.seed, 0)
	maxLen := g.factory.MaxRecordLen()

	defer func() {
		res.Pool = pool.Stats()
	}()

	var produced int64
	for produced < g.target {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf := pool.Rent()
		for len(buf.Free()) >= maxLen && produced < g.target {
			n := g.factory.Put(rng, buf.Free())
			buf.Advance(n)
			produced += int64(n)
			res.Records++
		}

		err := out.write(buf.Bytes())
		pool.Return(buf)
		if err != nil {
			return err
		}
		res.Buffers++
		g.progress(out.written)
	}

	log.Debug("sequential producer finished", zap.Int64("bytes", produced))
	return nil
}

package recordgen

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	genErrors "github.com/tamirms/recordgen/errors"
	"github.com/tamirms/recordgen/internal/bufpool"
	"github.com/tamirms/recordgen/internal/record"
)

// Generator writes one fixture file. A Generator runs once.
//
// Usage:
//
//	gen, err := recordgen.NewGenerator(path, 512<<20, recordgen.WithWorkers(8))
//	if err != nil { return err }
//	res, err := gen.Generate(ctx)
//	if err != nil {
//	    return fmt.Errorf("wrote %d of %d bytes: %w", res.Written, res.Target, err)
//	}
type Generator struct {
	path    string
	target  int64
	cfg     *config
	factory *record.Factory
	workers int
	seed    uint64
	used    atomic.Bool
}

// Result describes a finished (or aborted) run.
type Result struct {
	RunID    uuid.UUID
	Path     string
	Strategy Strategy
	Workers  int
	Target   int64

	Written  int64  // bytes in the output file
	Records  int64  // records generated
	Buffers  int64  // buffers flushed by the writer
	Checksum uint64 // xxHash64 of the file contents
	Elapsed  time.Duration

	Pool bufpool.Stats
}

// Throughput returns the write rate in bytes per second.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Written) / r.Elapsed.Seconds()
}

// NewGenerator validates the configuration. Every configuration error is
// reported here, before any file is created or goroutine started.
//
// path must already be resolved; its parent directory must exist.
// target is the minimum file size in bytes; zero produces an empty file.
func NewGenerator(path string, target int64, opts ...Option) (*Generator, error) {
	if path == "" {
		return nil, genErrors.ErrEmptyPath
	}
	if target < 0 {
		return nil, fmt.Errorf("%w: %d", genErrors.ErrInvalidTarget, target)
	}

	cfg := applyOptions(opts)

	if cfg.workers < 0 {
		return nil, fmt.Errorf("%w: %d", genErrors.ErrInvalidWorkers, cfg.workers)
	}
	if cfg.bufferSize <= 0 {
		return nil, fmt.Errorf("%w: %d", genErrors.ErrInvalidBufferSize, cfg.bufferSize)
	}
	switch cfg.strategy {
	case StrategyParallel, StrategySequential:
	default:
		return nil, fmt.Errorf("%w: %d", genErrors.ErrUnknownStrategy, cfg.strategy)
	}

	factory, err := newFactory(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.bufferSize < factory.MaxRecordLen() {
		return nil, fmt.Errorf("%w: buffer %d < record %d",
			genErrors.ErrBufferTooSmall, cfg.bufferSize, factory.MaxRecordLen())
	}

	workers := cfg.workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if cfg.strategy == StrategySequential {
		workers = 1
	}

	seed := cfg.seed
	if !cfg.seedSet {
		seed = rand.Uint64()
	}

	return &Generator{
		path:    path,
		target:  target,
		cfg:     cfg,
		factory: factory,
		workers: workers,
		seed:    seed,
	}, nil
}

func newFactory(cfg *config) (*record.Factory, error) {
	ws := make([][]byte, len(cfg.words))
	for i, w := range cfg.words {
		ws[i] = []byte(w)
	}
	return record.New(ws, cfg.minID, cfg.maxID, []byte(cfg.terminator))
}

// Workers returns the number of producers the run will use.
func (g *Generator) Workers() int { return g.workers }

// Seed returns the run seed, so a run can be reproduced with WithSeed.
func (g *Generator) Seed() uint64 { return g.seed }

// MaxRecordLen returns the worst-case size of a single record.
func (g *Generator) MaxRecordLen() int { return g.factory.MaxRecordLen() }

// Generate writes the file and blocks until it is complete.
//
// The returned Result is never nil: on failure it reports how much was
// written and how long the run took. A failed run leaves a truncated file
// behind; there is no partial-success mode.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:    uuid.New(),
		Path:     g.path,
		Strategy: g.cfg.strategy,
		Workers:  g.workers,
		Target:   g.target,
	}
	if !g.used.CompareAndSwap(false, true) {
		return res, genErrors.ErrGeneratorUsed
	}

	log := g.cfg.log.With(zap.String("run_id", res.RunID.String()))
	log.Info("generation started",
		zap.String("path", g.path),
		zap.Stringer("strategy", g.cfg.strategy),
		zap.Int64("target", g.target),
		zap.Int("workers", g.workers),
		zap.Int("buffer_size", g.cfg.bufferSize),
		zap.Uint64("seed", g.seed),
	)

	start := time.Now()

	var prealloc int64
	if g.cfg.preallocate {
		prealloc = g.target
	}
	out, err := createOutputFile(g.path, prealloc)
	if err != nil {
		res.Elapsed = time.Since(start)
		log.Error("generation failed", zap.Error(err))
		return res, err
	}

	var runErr error
	switch g.cfg.strategy {
	case StrategySequential:
		runErr = g.runSequential(ctx, out, res, log)
	default:
		runErr = g.runParallel(ctx, out, res, log)
	}

	finishErr := out.finish()
	res.Written = out.written
	res.Checksum = out.checksum()
	res.Elapsed = time.Since(start)

	if err := errors.Join(runErr, finishErr); err != nil {
		log.Error("generation failed",
			zap.Error(err),
			zap.Int64("written", res.Written),
			zap.Duration("elapsed", res.Elapsed),
		)
		return res, err
	}

	log.Info("generation finished",
		zap.Int64("written", res.Written),
		zap.Int64("records", res.Records),
		zap.Int64("buffers", res.Buffers),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("mb_per_sec", res.Throughput()/(1<<20)),
		zap.String("checksum", fmt.Sprintf("%016x", res.Checksum)),
	)
	return res, nil
}

// progress reports writer progress to the configured callback.
func (g *Generator) progress(written int64) {
	if g.cfg.progress != nil {
		g.cfg.progress(written, g.target)
	}
}

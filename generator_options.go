package recordgen

import (
	"go.uber.org/zap"

	"github.com/tamirms/recordgen/internal/words"
)

const (
	// DefaultBufferSize is the capacity of each pooled buffer (1 MiB).
	DefaultBufferSize = 1 << 20

	// DefaultMinID and DefaultMaxID bound record ids (inclusive).
	DefaultMinID = 1
	DefaultMaxID = 10_000_000

	// DefaultLineTerminator ends every record.
	DefaultLineTerminator = "\n"
)

// Strategy selects how a Generator produces its file.
type Strategy int

const (
	// StrategyParallel runs one producer per worker and a single writer.
	StrategyParallel Strategy = iota
	// StrategySequential fills and writes one buffer at a time on the
	// calling goroutine. Kept as a baseline for benchmarks.
	StrategySequential
)

func (s Strategy) String() string {
	switch s {
	case StrategyParallel:
		return "parallel"
	case StrategySequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a strategy name back to its value.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "parallel":
		return StrategyParallel, true
	case "sequential":
		return StrategySequential, true
	default:
		return 0, false
	}
}

// Option is a functional option for configuring generation and verification.
type Option func(*config)

type config struct {
	workers     int // 0 means runtime.NumCPU()
	bufferSize  int
	minID       int64
	maxID       int64
	words       []string
	terminator  string
	seed        uint64
	seedSet     bool
	strategy    Strategy
	log         *zap.Logger
	progress    func(written, target int64)
	preallocate bool
}

func defaultConfig() *config {
	return &config{
		bufferSize: DefaultBufferSize,
		minID:      DefaultMinID,
		maxID:      DefaultMaxID,
		words:      words.Default(),
		terminator: DefaultLineTerminator,
		strategy:   StrategyParallel,
		log:        zap.NewNop(),
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	return cfg
}

// WithWorkers sets the number of producer goroutines.
// Zero (the default) uses one producer per CPU.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithBufferSize sets the capacity of each pooled buffer in bytes.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = n
	}
}

// WithIDRange sets the inclusive range record ids are drawn from.
func WithIDRange(minID, maxID int64) Option {
	return func(c *config) {
		c.minID = minID
		c.maxID = maxID
	}
}

// WithWords replaces the built-in word list.
// The slice is copied, so the caller can reuse it after this call.
func WithWords(ws []string) Option {
	return func(c *config) {
		c.words = append([]string(nil), ws...)
	}
}

// WithLineTerminator sets the bytes that end each record.
func WithLineTerminator(t string) Option {
	return func(c *config) {
		c.terminator = t
	}
}

// WithSeed makes generation reproducible for a given worker count.
// Without it every run draws a fresh random seed.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithStrategy selects the generation strategy. Default is StrategyParallel.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithProgress registers a callback invoked by the writer after every
// flushed buffer. It runs on the writer goroutine and must be fast.
func WithProgress(fn func(written, target int64)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithPreallocate reserves target bytes on disk before writing, so that a
// full disk is reported up front. The file is truncated to the bytes
// actually written when generation ends.
func WithPreallocate(enabled bool) Option {
	return func(c *config) {
		c.preallocate = enabled
	}
}

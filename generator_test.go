package recordgen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	genErrors "github.com/tamirms/recordgen/errors"
)

func TestNewGeneratorRejectsMisconfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	tests := []struct {
		name   string
		path   string
		target int64
		opts   []Option
		want   error
	}{
		{"empty path", "", 10, nil, genErrors.ErrEmptyPath},
		{"negative target", path, -1, nil, genErrors.ErrInvalidTarget},
		{"negative workers", path, 10, []Option{WithWorkers(-1)}, genErrors.ErrInvalidWorkers},
		{"zero buffer", path, 10, []Option{WithBufferSize(0)}, genErrors.ErrInvalidBufferSize},
		{"negative buffer", path, 10, []Option{WithBufferSize(-5)}, genErrors.ErrInvalidBufferSize},
		{"empty words", path, 10, []Option{WithWords(nil)}, genErrors.ErrEmptyWordList},
		{"empty word", path, 10, []Option{WithWords([]string{"a", ""})}, genErrors.ErrEmptyWord},
		{"max below min", path, 10, []Option{WithIDRange(10, 9)}, genErrors.ErrInvalidIDRange},
		{"empty terminator", path, 10, []Option{WithLineTerminator("")}, genErrors.ErrEmptyTerminator},
		{"buffer below record", path, 10, []Option{WithBufferSize(8)}, genErrors.ErrBufferTooSmall},
		{"unknown strategy", path, 10, []Option{WithStrategy(Strategy(42))}, genErrors.ErrUnknownStrategy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen, err := NewGenerator(tc.path, tc.target, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, gen)
		})
	}

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist, "validation must not touch the filesystem")
}

func TestDefaults(t *testing.T) {
	gen, err := NewGenerator(filepath.Join(t.TempDir(), "out.txt"), 0)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), gen.Workers())
	// "10000000" + "." + "Passion fruit"/"Dragon fruit"/"Pomegranate" + "\n"
	assert.Equal(t, 8+1+13+1, gen.MaxRecordLen())

	seq, err := NewGenerator(filepath.Join(t.TempDir(), "out.txt"), 0,
		WithStrategy(StrategySequential), WithWorkers(8))
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Workers())
}

func TestZeroTarget(t *testing.T) {
	for _, strategy := range []Strategy{StrategyParallel, StrategySequential} {
		t.Run(strategy.String(), func(t *testing.T) {
			res, path := generate(t, 0, WithStrategy(strategy), WithWorkers(4))

			assert.Zero(t, res.Written)
			assert.Zero(t, res.Records)
			assert.Zero(t, res.Pool.Rents, "no worker may rent a buffer")

			st, err := os.Stat(path)
			require.NoError(t, err)
			assert.Zero(t, st.Size())
		})
	}
}

func TestHalfBufferTargetRentsOneBuffer(t *testing.T) {
	const bufferSize = 64 << 10
	res, path := generate(t, bufferSize/2, WithWorkers(1), WithBufferSize(bufferSize))

	assert.Equal(t, int64(1), res.Pool.Rents)
	assert.Equal(t, int64(1), res.Pool.Allocs)
	assert.Equal(t, int64(1), res.Buffers)
	requireSizeBounds(t, res, bufferSize)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, res.Written, st.Size())
}

func TestSingleWordSingleID(t *testing.T) {
	res, path := generate(t, 50_000,
		WithWords([]string{"Mango"}),
		WithIDRange(5, 5),
		WithBufferSize(4096),
		WithWorkers(3),
	)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, res.Written, int64(len(data)))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Equal(t, res.Records, int64(len(lines)))
	for i, line := range lines {
		if line != "5.Mango" {
			t.Fatalf("line %d = %q, want %q", i, line, "5.Mango")
		}
	}
}

func TestGeneratorRunsOnce(t *testing.T) {
	gen, err := NewGenerator(filepath.Join(t.TempDir(), "out.txt"), 100, WithBufferSize(1024))
	require.NoError(t, err)
	_, err = gen.Generate(context.Background())
	require.NoError(t, err)

	res, err := gen.Generate(context.Background())
	require.ErrorIs(t, err, genErrors.ErrGeneratorUsed)
	assert.NotNil(t, res)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, strategy := range []Strategy{StrategyParallel, StrategySequential} {
		t.Run(strategy.String(), func(t *testing.T) {
			gen, err := NewGenerator(filepath.Join(t.TempDir(), "out.txt"), 10<<20,
				WithStrategy(strategy), WithBufferSize(4096))
			require.NoError(t, err)

			res, err := gen.Generate(ctx)
			require.ErrorIs(t, err, context.Canceled)
			require.NotNil(t, res)
			assert.Less(t, res.Written, res.Target)
			assert.Zero(t, res.Pool.Outstanding(), "aborted run must return every buffer")
		})
	}
}

func TestOpenFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(filepath.Join(dir, "missing", "out.txt"), 100)
	require.NoError(t, err)

	res, err := gen.Generate(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, res)
	assert.Zero(t, res.Written)
}

func TestWriteFailureAbortsRun(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/dev/full is Linux-specific")
	}
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	for _, strategy := range []Strategy{StrategyParallel, StrategySequential} {
		t.Run(strategy.String(), func(t *testing.T) {
			gen, err := NewGenerator("/dev/full", 8<<20,
				WithStrategy(strategy), WithWorkers(4), WithBufferSize(4096))
			require.NoError(t, err)

			res, err := gen.Generate(context.Background())
			require.ErrorIs(t, err, syscall.ENOSPC)
			require.NotNil(t, res)
			assert.Zero(t, res.Written)
			assert.Zero(t, res.Pool.Outstanding(), "aborted run must return every buffer")
		})
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	var mu sync.Mutex
	var seen []int64
	res, _ := generate(t, 1<<20,
		WithBufferSize(16<<10),
		WithWorkers(4),
		WithProgress(func(written, target int64) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, written)
		}),
	)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		require.Greater(t, seen[i], seen[i-1])
	}
	assert.Equal(t, res.Written, seen[len(seen)-1])
	assert.Equal(t, res.Buffers, int64(len(seen)))
}

func TestPreallocateTrimsToWritten(t *testing.T) {
	res, path := generate(t, 300_000, WithPreallocate(true), WithBufferSize(64<<10), WithWorkers(2))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, res.Written, st.Size())

	_, err = Verify(path)
	require.NoError(t, err)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	res, _ := generate(t, 100_000, WithLogger(zap.New(core)), WithWorkers(2), WithBufferSize(8<<10))

	started := logs.FilterMessage("generation started").All()
	require.Len(t, started, 1)
	assert.Equal(t, res.RunID.String(), started[0].ContextMap()["run_id"])

	finished := logs.FilterMessage("generation finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, res.Written, finished[0].ContextMap()["written"])

	assert.Len(t, logs.FilterMessage("producer finished").All(), 2)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyParallel, StrategySequential} {
		got, ok := ParseStrategy(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseStrategy("bogus")
	assert.False(t, ok)
}

package recordgen

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// testSeed derives a per-test run seed from the test name, so every test
// generates different data but reruns are reproducible.
func testSeed(t testing.TB) uint64 {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	return testSeed1 ^ binary.LittleEndian.Uint64(sum[:8]) ^ testSeed2 ^ binary.LittleEndian.Uint64(sum[8:])
}

// generate runs a generator into a fresh temp file and requires success.
func generate(t testing.TB, target int64, opts ...Option) (*Result, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.txt")
	opts = append([]Option{WithSeed(testSeed(t))}, opts...)
	gen, err := NewGenerator(path, target, opts...)
	require.NoError(t, err)
	res, err := gen.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	return res, path
}

// requireSizeBounds checks the overshoot contract: target <= size < target + workers*capacity.
func requireSizeBounds(t testing.TB, res *Result, bufferSize int) {
	t.Helper()
	require.GreaterOrEqual(t, res.Written, res.Target, "file shorter than target")
	require.Less(t, res.Written, res.Target+int64(res.Workers)*int64(bufferSize), "overshoot exceeds one buffer per worker")
}

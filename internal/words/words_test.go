package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genErrors "github.com/tamirms/recordgen/errors"
)

func TestDefaultIsACopy(t *testing.T) {
	d := Default()
	require.Len(t, d, 25)
	d[0] = "changed"
	assert.Equal(t, "Apple", Default()[0])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\r\n\n  \nbeta gamma\ndelta"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta gamma", "delta"}, got)
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, genErrors.ErrEmptyWordList)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", WithInMemory())
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := OpenBackend(path)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", WithInMemory())
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestKeys_NoPrefixOverlap(t *testing.T) {
	primary := makeReportKey("lost-1")
	index := makeReportTypeKey("lost", "lost-1")
	assert.NotEqual(t, reportPrefix, string(index[:len(reportPrefix)]))
	assert.Equal(t, "lost-1", reportIDFromKey(primary, []byte(reportPrefix)))
	assert.Equal(t, "lost-1", reportIDFromKey(index, makePartialReportTypeKey("lost")))
	assert.Len(t, makeEmbeddingKey(42), len(embeddingPrefix)+8)
}

func TestBackend_Compact(t *testing.T) {
	t.Run("in memory is a no-op", func(t *testing.T) {
		backend, err := OpenBackend("", WithInMemory())
		require.NoError(t, err)
		defer backend.Close()

		n, err := backend.Compact()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("fresh database has nothing to rewrite", func(t *testing.T) {
		backend, err := OpenBackend(filepath.Join(t.TempDir(), "db"))
		require.NoError(t, err)
		defer backend.Close()

		n, err := backend.Compact()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

package mmap_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/extractinator/internal/mmap"
	"github.com/stretchr/testify/require"
)

func TestOpenRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	content := []byte("\x89PNG\r\n\x1a\nhello")
	require.NoError(t, os.WriteFile(path, content, 0644))

	f, err := mmap.Open(path)
	require.NoError(t, err)
	require.Equal(t, content, f.Data)
	require.Equal(t, len(content), f.Size())

	buf := make([]byte, 5)
	n, err := f.ReadAt(buf, int64(len(content)-5))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), buf)

	n, err = f.ReadAt(buf, int64(len(content)-2))
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	require.NoError(t, f.Close())
	require.Nil(t, f.Data)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	f, err := mmap.Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.False(t, f.Mapped())
	require.Empty(t, f.Data)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := mmap.Open(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "missing")

	_, err = mmap.Open(dir)
	require.Error(t, err)
}

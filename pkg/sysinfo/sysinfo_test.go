package sysinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	info := Stat()
	require.Equal(t, runtime.GOOS, info.Name)
	require.NotEmpty(t, info.Release)
	require.NotEmpty(t, info.Version)
	require.NotEmpty(t, info.Machine)
}

func TestOSReleaseName(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "os-release")
	require.NoError(t, os.WriteFile(path, []byte("NAME=\"Debian GNU/Linux\"\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n"), 0644))
	require.Equal(t, "Debian GNU/Linux 12 (bookworm)", osReleaseName(path))

	require.NoError(t, os.WriteFile(path, []byte("NAME=Alpine\n"), 0644))
	require.Equal(t, "Alpine", osReleaseName(path))

	require.Empty(t, osReleaseName(filepath.Join(dir, "missing")))
}

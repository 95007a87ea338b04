package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ostafen/extractinator/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelInfo).With("run", "hidden")

	log.Debug("not shown")
	log.Info("found png", "offset", "0x10")
	log.Error("boom")

	require.Equal(t, "[INFO] found png offset=0x10\n[ERROR] boom\n", buf.String())
}

func TestFanoutWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	fileHandler, f, err := logger.NewFileHandler(path, slog.LevelDebug)
	require.NoError(t, err)

	var console bytes.Buffer
	log := slog.New(logger.Fanout{
		logger.NewConsoleHandler(&console, slog.LevelInfo),
		fileHandler,
	}).With("run_id", "abc")

	log.Debug("detail")
	log.Info("summary")
	require.NoError(t, f.Close())

	require.Equal(t, "[INFO] summary\n", console.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=detail")
	require.Contains(t, string(data), "msg=summary")
	require.Contains(t, string(data), "run_id=abc")
}

func TestSyncWriterSharedByHandlers(t *testing.T) {
	var buf bytes.Buffer
	w := logger.SyncWriter(&buf)
	require.Same(t, w, logger.SyncWriter(w))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		log := logger.New(w, slog.LevelInfo)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Info("artifact saved", "job", i)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 400)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "[INFO] artifact saved job="), line)
	}
}

package pbar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressBarThrottlesAndFinishes(t *testing.T) {
	var out bytes.Buffer

	clock := time.Unix(100, 0)
	pb := New(&out, 1000)
	pb.start = clock
	pb.now = func() time.Time { return clock }

	pb.Update(250, 1)
	require.Equal(t, 1, strings.Count(out.String(), "\r"))
	require.Contains(t, out.String(), " 25%")
	require.Contains(t, out.String(), "Files Found: 1")

	// within the refresh window: no redraw
	clock = clock.Add(MinRefreshRate / 2)
	pb.Update(500, 2)
	require.Equal(t, 1, strings.Count(out.String(), "\r"))

	clock = clock.Add(MinRefreshRate)
	pb.Update(5000, 3)
	require.Equal(t, 2, strings.Count(out.String(), "\r"))
	require.Contains(t, out.String(), "[====================]")

	pb.Finish()
	require.True(t, strings.HasSuffix(out.String(), "\n"))
	require.Contains(t, out.String(), "100%")
}

func TestProgressBarEmptyInput(t *testing.T) {
	var out bytes.Buffer

	pb := New(&out, 0)
	pb.Finish()
	require.Contains(t, out.String(), "100%")
}

func TestWriterKeepsBarOnLastLine(t *testing.T) {
	var out bytes.Buffer

	pb := New(&out, 100)

	// nothing drawn yet: plain pass-through
	_, err := pb.Writer().Write([]byte("[INFO] first\n"))
	require.NoError(t, err)
	require.Equal(t, "[INFO] first\n", out.String())

	pb.Update(10, 0)
	out.Reset()

	_, err = pb.Writer().Write([]byte("[INFO] second\n"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out.String(), "\r\033[K[INFO] second\n\r[INFO] Progress:"))

	pb.Finish()
	out.Reset()

	_, err = pb.Writer().Write([]byte("[INFO] done\n"))
	require.NoError(t, err)
	require.Equal(t, "[INFO] done\n", out.String())
}

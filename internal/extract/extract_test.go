package extract_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ostafen/extractinator/internal/carve"
	"github.com/ostafen/extractinator/internal/extract"
	"github.com/ostafen/extractinator/internal/logger"
	"github.com/ostafen/extractinator/internal/signature"
	"github.com/ostafen/extractinator/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

var (
	pngStart = []byte("\x89PNG\x0d\x0a\x1a\x0a")
	pngEnd   = []byte("IEND\xae\x42\x60\x82")
)

func png(payload string) []byte {
	return bytes.Join([][]byte{pngStart, []byte(payload), pngEnd}, nil)
}

// image lays out two PNGs and one GIF between filler bytes.
func image() []byte {
	return bytes.Join([][]byte{
		[]byte("junk"),
		png("first"),
		[]byte("...."),
		[]byte("GIF89a-data\x00\x3b"),
		png("second image"),
		[]byte("tail"),
	}, nil)
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newCarver(t *testing.T, sink extract.Sink, formats ...string) *extract.Carver {
	t.Helper()

	sigs, err := signature.Default().Resolve(formats...)
	require.NoError(t, err)

	return &extract.Carver{
		Scanner: carve.NewScanner(sigs),
		Sink:    sink,
		Logger:  logger.Discard(),
	}
}

func TestCarveNamesArtifactsByCounter(t *testing.T) {
	sink := extract.MemSink{}
	buf := image()

	res, err := newCarver(t, sink, "png", "gif").Carve(context.Background(), buf)
	require.NoError(t, err)

	require.Equal(t, 3, res.Found)
	require.Equal(t, 3, res.Saved)
	require.Zero(t, res.Unterminated)

	require.Equal(t, png("first"), sink["1.png"])
	require.Equal(t, []byte("GIF89a-data\x00\x3b"), sink["2.gif"])
	require.Equal(t, png("second image"), sink["3.png"])

	names := make([]string, len(res.Artifacts))
	for i, art := range res.Artifacts {
		names[i] = art.Name
		require.Equal(t, buf[art.Offset:art.Offset+art.Size], sink[art.Name])
	}
	require.Equal(t, []string{"1.png", "2.gif", "3.png"}, names)
}

func TestCarveCountsUnterminatedOccurrence(t *testing.T) {
	sink := extract.MemSink{}
	buf := append(png("ok"), pngStart...)

	res, err := newCarver(t, sink, "png").Carve(context.Background(), buf)
	require.NoError(t, err)

	require.Equal(t, 2, res.Found)
	require.Equal(t, 1, res.Saved)
	require.Equal(t, 1, res.Unterminated)
	require.Len(t, sink, 1)
}

type failingSink struct {
	fail  string
	saved []string
}

func (s *failingSink) Save(name string, r io.Reader) error {
	if name == s.fail {
		return errors.New("disk full")
	}
	s.saved = append(s.saved, name)
	return nil
}

func TestCarveContinuesAfterSaveFailure(t *testing.T) {
	sink := &failingSink{fail: "1.png"}

	res, err := newCarver(t, sink, "png", "gif").Carve(context.Background(), image())
	require.NoError(t, err)

	require.Equal(t, 3, res.Found)
	require.Equal(t, 2, res.Saved)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, []string{"2.gif", "3.png"}, sink.saved)
	require.Error(t, res.Artifacts[0].Err)
}

func TestCarveSkipsOversizedArtifacts(t *testing.T) {
	sink := extract.MemSink{}

	c := newCarver(t, sink, "png")
	c.MaxSize = uint64(len(png("first")))

	res, err := c.Carve(context.Background(), image())
	require.NoError(t, err)

	require.Equal(t, 1, res.Saved)
	require.Equal(t, 1, res.Skipped)
	require.Contains(t, sink, "1.png")
	require.NotContains(t, sink, "2.png")
}

func TestCarveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	c := newCarver(t, extract.DiscardSink{}, "png")
	c.OnArtifact = func(extract.Artifact) { cancel() }

	res, err := c.Carve(ctx, image())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, res.Saved)
}

func TestExtract(t *testing.T) {
	path := writeImage(t, image())
	outDir := filepath.Join(t.TempDir(), "out")
	reportFile := filepath.Join(outDir, "report.xml")

	var console bytes.Buffer
	summary, err := extract.Extract(context.Background(), path, signature.Default(), extract.Options{
		OutputDir:  outDir,
		ReportFile: reportFile,
		Formats:    []string{"png"},
		NoProgress: true,
		Console:    &console,
	})
	require.NoError(t, err)

	require.Equal(t, 2, summary.Found)
	require.Equal(t, 2, summary.Saved)
	require.Equal(t, int64(len(image())), summary.Bytes)
	require.NotEmpty(t, summary.RunID)
	require.FileExists(t, summary.LogFile)

	data, err := os.ReadFile(filepath.Join(outDir, "1.png"))
	require.NoError(t, err)
	require.Equal(t, png("first"), data)

	data, err = os.ReadFile(filepath.Join(outDir, "2.png"))
	require.NoError(t, err)
	require.Equal(t, png("second image"), data)

	out := console.String()
	require.Contains(t, out, "[INFO] Found png at 0x4 .. 0x19 - saved as 1.png")
	require.Contains(t, out, "Finished processing "+path+" with 2 files found inside!")

	objs, err := extract.ReadReport(reportFile)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	require.Equal(t, "1.png", objs[0].Filename)
	require.Equal(t, "png", objs[0].Format)
	require.Equal(t, uint64(4), objs[0].ByteRuns.Runs[0].ImgOffset)
	require.Equal(t, uint64(len(png("first"))), objs[0].FileSize)
}

func TestExtractOverwritesExistingArtifacts(t *testing.T) {
	path := writeImage(t, png("new"))
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "1.png"), []byte("old content"), 0644))

	_, err := extract.Extract(context.Background(), path, signature.Default(), extract.Options{
		OutputDir:  outDir,
		Formats:    []string{"png"},
		DisableLog: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "1.png"))
	require.NoError(t, err)
	require.Equal(t, png("new"), data)
}

func TestExtractFatalErrors(t *testing.T) {
	outDir := t.TempDir()
	opts := extract.Options{OutputDir: outDir, DisableLog: true, Formats: []string{"png"}}

	missing := filepath.Join(outDir, "missing.img")
	_, err := extract.Extract(context.Background(), missing, signature.Default(), opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), missing)

	opts.Formats = []string{"png", "webp"}
	_, err = extract.Extract(context.Background(), writeImage(t, image()), signature.Default(), opts)
	require.ErrorIs(t, err, signature.ErrUnknownFormat)
}

func TestExtractAllFormatsByDefault(t *testing.T) {
	summary, err := extract.Extract(context.Background(), writeImage(t, image()), signature.Default(), extract.Options{
		OutputDir:  t.TempDir(),
		DisableLog: true,
	})
	require.NoError(t, err)
	require.Equal(t, 3, summary.Saved)
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "a.img")
	second := filepath.Join(dir, "b.img")
	require.NoError(t, os.WriteFile(first, png("a"), 0644))
	require.NoError(t, os.WriteFile(second, image(), 0644))

	outDir := filepath.Join(dir, "out")
	summaries, err := extract.ExtractAll(context.Background(), []string{first, second}, signature.Default(), extract.Options{
		OutputDir:  outDir,
		ReportFile: "report.xml",
		Formats:    []string{"png"},
		DisableLog: true,
	}, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, 1, summaries[0].Saved)
	require.Equal(t, 2, summaries[1].Saved)

	require.FileExists(t, filepath.Join(outDir, "a.img", "1.png"))
	require.FileExists(t, filepath.Join(outDir, "a.img", "report.xml"))
	require.FileExists(t, filepath.Join(outDir, "b.img", "2.png"))
	require.FileExists(t, filepath.Join(outDir, "b.img", "report.xml"))
}

// overlapWriter records whether two Writes were ever in flight at once.
type overlapWriter struct {
	inflight atomic.Int32
	overlap  atomic.Bool

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *overlapWriter) Write(p []byte) (int, error) {
	if w.inflight.Add(1) > 1 {
		w.overlap.Store(true)
	}
	defer w.inflight.Add(-1)

	time.Sleep(100 * time.Microsecond)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestExtractAllSerializesConsole(t *testing.T) {
	dir := t.TempDir()

	paths := make([]string, 4)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%d.img", i))
		require.NoError(t, os.WriteFile(paths[i], image(), 0644))
	}

	console := &overlapWriter{}
	summaries, err := extract.ExtractAll(context.Background(), paths, signature.Default(), extract.Options{
		OutputDir:  filepath.Join(dir, "out"),
		Formats:    []string{"png", "gif"},
		DisableLog: true,
		Console:    console,
	}, 4)
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	require.False(t, console.overlap.Load())

	lines := strings.Split(strings.TrimSuffix(console.buf.String(), "\n"), "\n")
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "[INFO] "), line)
	}
	require.Equal(t, 4, strings.Count(console.buf.String(), "with 3 files found inside!"))
}

func TestExtractAllFailsOnMissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := extract.ExtractAll(context.Background(), []string{filepath.Join(dir, "nope"), writeImage(t, image())}, signature.Default(), extract.Options{
		OutputDir:  filepath.Join(dir, "out"),
		DisableLog: true,
	}, 1)
	require.Error(t, err)
}

func TestRecover(t *testing.T) {
	path := writeImage(t, image())
	reportFile := filepath.Join(t.TempDir(), "report.xml")

	_, err := extract.Extract(context.Background(), path, signature.Default(), extract.Options{
		OutputDir:  t.TempDir(),
		ReportFile: reportFile,
		Formats:    []string{"gif", "png"},
		DisableLog: true,
	})
	require.NoError(t, err)

	objs, err := extract.ReadReport(reportFile)
	require.NoError(t, err)
	require.Len(t, objs, 3)

	// a run pointing past the image is reported and skipped
	objs = append(objs, dfxml.Contiguous("4.png", "png", 1<<20, 10))

	sink := extract.MemSink{}
	saved, err := extract.Recover(context.Background(), path, objs, sink, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, 3, saved)

	require.Equal(t, png("first"), sink["1.png"])
	require.True(t, strings.HasPrefix(string(sink["2.gif"]), "GIF89a"))
	require.Equal(t, png("second image"), sink["3.png"])
}

func TestDirSinkRejectsPaths(t *testing.T) {
	sink := extract.DirSink{Dir: t.TempDir()}

	require.Error(t, sink.Save("../escape.png", strings.NewReader("x")))
	require.Error(t, sink.Save("", strings.NewReader("x")))
	require.NoError(t, sink.Save("1.png", strings.NewReader("x")))
}

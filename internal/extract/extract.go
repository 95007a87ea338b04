// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ostafen/extractinator/internal/carve"
	"github.com/ostafen/extractinator/internal/env"
	"github.com/ostafen/extractinator/internal/logger"
	"github.com/ostafen/extractinator/internal/mmap"
	"github.com/ostafen/extractinator/internal/signature"
	"github.com/ostafen/extractinator/pkg/dfxml"
	"github.com/ostafen/extractinator/pkg/pbar"
	fmtutil "github.com/ostafen/extractinator/pkg/util/format"
	osutils "github.com/ostafen/extractinator/pkg/util/os"
)

type Options struct {
	OutputDir string
	// ReportFile, when set, receives a DFXML description of every saved artifact.
	ReportFile string
	// Formats selects the signatures to scan for, in priority order.
	// An empty list selects every registered format.
	Formats []string
	Matcher carve.Matcher
	MaxSize uint64

	DisableLog bool
	// LogFile overrides the default "<output dir>/<run id>.log".
	LogFile  string
	LogLevel slog.Level

	NoProgress bool
	// Console receives the progress bar and the console log. Nil means silent.
	Console io.Writer
}

type Summary struct {
	Result

	Input      string
	RunID      string
	OutputDir  string
	ReportFile string
	LogFile    string
	Bytes      int64
	Duration   time.Duration
}

// Extract scans the file at path and saves every carved artifact to opts.OutputDir.
// Failing to read the input or resolve a format is fatal; failing to save a
// single artifact is not.
func Extract(ctx context.Context, path string, reg *signature.Registry, opts Options) (*Summary, error) {
	sigs, err := resolve(reg, opts.Formats)
	if err != nil {
		return nil, err
	}

	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if _, err := osutils.EnsureDir(outDir, false); err != nil {
		return nil, err
	}

	start := time.Now()

	summary := &Summary{
		Input:     path,
		RunID:     uuid.NewString(),
		OutputDir: outDir,
		Bytes:     int64(f.Size()),
	}

	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	var pb *pbar.ProgressBar
	if !opts.NoProgress && opts.Console != nil {
		pb = pbar.New(console, summary.Bytes)
		console = pb.Writer()
	}

	handlers := logger.Fanout{logger.NewConsoleHandler(console, opts.LogLevel)}
	if !opts.DisableLog {
		summary.LogFile = opts.LogFile
		if summary.LogFile == "" {
			summary.LogFile = filepath.Join(outDir, summary.RunID+".log")
		}
		summary.LogFile = absPath(summary.LogFile)

		h, logFile, err := logger.NewFileHandler(summary.LogFile, opts.LogLevel)
		if err != nil {
			return nil, err
		}
		defer logFile.Close()

		handlers = append(handlers, h)
	}
	log := slog.New(handlers).With("run_id", summary.RunID, "input", path)

	var report *reportWriter
	if opts.ReportFile != "" {
		summary.ReportFile = absPath(opts.ReportFile)

		report, err = createReport(summary.ReportFile, dfxml.Header{
			Metadata: dfxml.Metadata{
				Type:       "Carve Report",
				Identifier: summary.RunID,
			},
			Creator: dfxml.Creator{
				Package:              env.AppName,
				Version:              env.Version,
				ExecutionEnvironment: dfxml.GetExecEnv(start),
			},
			Source: dfxml.Source{
				ImageFilename: absPath(path),
				ImageSize:     uint64(summary.Bytes),
			},
		})
		if err != nil {
			return nil, err
		}
		defer report.Close()
	}

	names := make([]string, len(sigs))
	for i, sig := range sigs {
		names[i] = sig.Name()
	}

	log.Info("Starting extraction...")
	log.Info(fmt.Sprintf("Source: \t%s (%s)", absPath(path), fmtutil.FormatBytes(summary.Bytes)))
	log.Info(fmt.Sprintf("Formats: \t%s", strings.Join(names, ",")))
	log.Info(fmt.Sprintf("Destination: \t%s", absPath(outDir)))
	log.Info(fmt.Sprintf("Output Log: \t%s", orDisabled(summary.LogFile)))

	carver := &Carver{
		Scanner: carve.NewScanner(sigs, carve.WithMatcher(opts.Matcher)),
		Sink:    DirSink{Dir: outDir},
		Logger:  log,
		MaxSize: opts.MaxSize,
		OnArtifact: func(art Artifact) {
			if report == nil || !art.Saved {
				return
			}
			obj := dfxml.Contiguous(art.Name, art.Format, uint64(art.Offset), uint64(art.Size))
			if err := report.WriteFileObject(obj); err != nil {
				log.Error("unable to write report entry", "name", art.Name, "err", err)
			}
		},
	}
	if pb != nil {
		carver.OnProgress = func(offset int, found int) {
			pb.Update(int64(offset), found)
		}
	}

	res, err := carver.Carve(ctx, f.Data)
	if pb != nil && err == nil {
		pb.Finish()
	}
	summary.Result = *res
	summary.Duration = time.Since(start)

	if err != nil {
		log.Warn("extraction interrupted", "err", err, "found", res.Found)
		return summary, err
	}

	if report != nil {
		if err := report.Close(); err != nil {
			return summary, fmt.Errorf("failed to write report %q: %w", summary.ReportFile, err)
		}
	}

	log.Info("Extraction completed!")
	log.Info(fmt.Sprintf("Files saved: \t%d (%s)", res.Saved, fmtutil.FormatBytes(res.SavedBytes)))
	if res.Skipped > 0 || res.Failed > 0 {
		log.Info(fmt.Sprintf("Files skipped: \t%d, failed: %d", res.Skipped, res.Failed))
	}
	log.Info(fmt.Sprintf("Duration: \t%s", FormatDurationHMS(summary.Duration)))
	if summary.ReportFile != "" {
		log.Info(fmt.Sprintf("Report saved to: \t%s", summary.ReportFile))
	}
	log.Info(fmt.Sprintf("Finished processing %s with %d files found inside!", path, res.Found))

	return summary, nil
}

func resolve(reg *signature.Registry, formats []string) ([]signature.Signature, error) {
	if len(formats) == 0 {
		sigs := reg.Signatures()
		if len(sigs) == 0 {
			return nil, errors.New("no formats registered")
		}
		return sigs, nil
	}
	return reg.Resolve(formats...)
}

type reportWriter struct {
	*dfxml.Writer

	f      *os.File
	closed bool
}

func createReport(path string, hdr dfxml.Header) (*reportWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report %q: %w", path, err)
	}

	w := dfxml.NewWriter(f)
	if err := w.WriteHeader(hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return &reportWriter{Writer: w, f: f}, nil
}

// Close terminates the document and closes the file. Calling it twice is a no-op.
func (r *reportWriter) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.Writer.Close()
	return errors.Join(err, r.f.Close())
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func orDisabled(s string) string {
	if s == "" {
		return "disabled"
	}
	return s
}

// FormatDurationHMS formats d as HH:MM:SS, or as fractional seconds below one second.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ostafen/extractinator/pkg/util/format"
	"golang.org/x/time/rate"
)

const (
	MinRefreshRate = 500 * time.Millisecond
	barLength      = 20
)

// ProgressBar renders scan progress on a single terminal line.
type ProgressBar struct {
	out io.Writer

	total      int64
	processed  int64
	filesFound int

	start         time.Time
	lastUpdate    time.Time
	lastProcessed int64
	now           func() time.Time
	redraw        *rate.Limiter

	// drawn is set while the bar occupies the current terminal line.
	drawn bool
}

func New(out io.Writer, totalBytes int64) *ProgressBar {
	return &ProgressBar{
		out:    out,
		total:  totalBytes,
		start:  time.Now(),
		now:    time.Now,
		redraw: rate.NewLimiter(rate.Every(MinRefreshRate), 1),
	}
}

// Update records progress and redraws at most once per MinRefreshRate.
func (pb *ProgressBar) Update(processed int64, filesFound int) {
	pb.processed = min(processed, pb.total)
	pb.filesFound = filesFound
	pb.render(false)
}

// Finish draws the final state and terminates the line.
func (pb *ProgressBar) Finish() {
	pb.processed = pb.total
	pb.render(true)
	fmt.Fprintln(pb.out)
	pb.drawn = false
}

// Writer returns a writer for log lines sharing the terminal with the bar:
// the bar line is cleared before each write and redrawn after it.
func (pb *ProgressBar) Writer() io.Writer {
	return lineWriter{pb}
}

type lineWriter struct {
	pb *ProgressBar
}

func (lw lineWriter) Write(p []byte) (int, error) {
	if !lw.pb.drawn {
		return lw.pb.out.Write(p)
	}

	fmt.Fprint(lw.pb.out, "\r\033[K")
	n, err := lw.pb.out.Write(p)
	lw.pb.render(true)
	return n, err
}

func (pb *ProgressBar) render(force bool) {
	now := pb.now()
	if !force && !pb.redraw.AllowN(now, 1) {
		return
	}

	percentage := 100.0
	if pb.total > 0 {
		percentage = float64(pb.processed) / float64(pb.total) * 100
	}

	filled := int(float64(barLength) * percentage / 100)
	var bar string
	if filled >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLength-filled-1)
	}

	var speed float64
	if elapsed := now.Sub(pb.lastUpdate).Seconds(); !pb.lastUpdate.IsZero() && elapsed > 0 {
		speed = float64(pb.processed-pb.lastProcessed) / elapsed
	} else if elapsed := now.Sub(pb.start).Seconds(); elapsed > 0 {
		speed = float64(pb.processed) / elapsed
	}

	eta := "calculating..."
	if speed > 0 {
		remaining := float64(pb.total-pb.processed) / speed
		eta = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(remaining/3600),
			int(remaining/60)%60,
			int(remaining)%60)
	}

	pb.lastUpdate = now
	pb.lastProcessed = pb.processed
	pb.drawn = true

	// trailing spaces wipe leftovers of a longer previous line
	fmt.Fprintf(pb.out, "\r[INFO] Progress: [%s] %3.0f%% (%s/%s) | Files Found: %d | @ %.2fMB/s [%s]    ",
		bar,
		percentage,
		format.FormatBytes(pb.processed),
		format.FormatBytes(pb.total),
		pb.filesFound,
		speed/format.MB,
		eta)
}

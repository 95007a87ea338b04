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
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ostafen/extractinator/internal/carve"
	"github.com/ostafen/extractinator/internal/logger"
)

// Artifact is one closed carve and what happened to it.
type Artifact struct {
	Name   string // "<counter>.<format>"
	Format string
	Offset int
	Size   int
	Saved  bool
	// Skipped is set when the artifact exceeded the size limit.
	Skipped bool
	Err     error
}

// Result counts the outcome of carving one buffer.
type Result struct {
	// Found counts start markers, including the unterminated one, if any.
	Found        int
	Saved        int
	Failed       int
	Skipped      int
	Unterminated int
	SavedBytes   int64
	Artifacts    []Artifact
}

// Carver turns scanner events into saved artifacts.
type Carver struct {
	Scanner *carve.Scanner
	Sink    Sink
	Logger  *slog.Logger
	// MaxSize, when non-zero, skips artifacts larger than this many bytes.
	MaxSize uint64
	// OnArtifact, when set, is called after each artifact is handled.
	OnArtifact func(Artifact)
	// OnProgress, when set, is called with the buffer offset of each event.
	OnProgress func(offset int, found int)
}

// Carve ranges over the events of buf. Artifacts are named after a running
// counter bumped on every start marker, so the first one is "1.<format>".
// A failing Save is logged and recorded; the scan goes on.
// Carve only fails if ctx is cancelled.
func (c *Carver) Carve(ctx context.Context, buf []byte) (*Result, error) {
	log := c.Logger
	if log == nil {
		log = logger.Discard()
	}

	res := &Result{}

	var pending *carve.Start
	for ev := range c.Scanner.Scan(buf) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		switch ev := ev.(type) {
		case carve.Start:
			res.Found++
			pending = &ev
			log.Debug("start marker found", "format", ev.Name, "offset", hexOffset(ev.Pos))

		case carve.End:
			pending = nil
			art := c.handle(log, buf, res.Found, ev)
			res.Artifacts = append(res.Artifacts, art)

			switch {
			case art.Saved:
				res.Saved++
				res.SavedBytes += int64(art.Size)
			case art.Skipped:
				res.Skipped++
			default:
				res.Failed++
			}

			if c.OnArtifact != nil {
				c.OnArtifact(art)
			}
		}

		if c.OnProgress != nil {
			c.OnProgress(ev.Offset(), res.Found)
		}
	}

	if pending != nil {
		res.Unterminated++
		log.Warn("no end marker before end of input", "format", pending.Name, "offset", hexOffset(pending.Pos))
	}
	return res, nil
}

func (c *Carver) handle(log *slog.Logger, buf []byte, counter int, ev carve.End) Artifact {
	art := Artifact{
		Name:   fmt.Sprintf("%d.%s", counter, ev.Name),
		Format: ev.Name,
		Offset: ev.Pos,
		Size:   ev.Len(),
	}

	if c.MaxSize > 0 && uint64(art.Size) > c.MaxSize {
		art.Skipped = true
		log.Warn("artifact exceeds size limit, skipped",
			"name", art.Name, "size", art.Size, "limit", c.MaxSize)
		return art
	}

	if err := c.Sink.Save(art.Name, bytes.NewReader(ev.Slice(buf))); err != nil {
		art.Err = err
		log.Error("unable to save artifact", "name", art.Name, "err", err)
		return art
	}

	art.Saved = true
	log.Info(fmt.Sprintf("Found %s at %s .. %s - saved as %s",
		ev.Name, hexOffset(ev.Pos), hexOffset(ev.EndPos), art.Name))
	return art
}

func hexOffset(off int) string {
	return fmt.Sprintf("%#x", off)
}

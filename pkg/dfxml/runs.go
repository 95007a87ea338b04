package dfxml

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
)

var ErrInvalidRuns = errors.New("invalid byte runs")

// Open returns a reader over the content of o inside img, an image of imgSize bytes.
// Runs must cover the file from offset 0 without gaps and lie inside the image.
func (o FileObject) Open(img io.ReaderAt, imgSize uint64) (*io.SectionReader, error) {
	runs := slices.Clone(o.ByteRuns.Runs)
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: %q has no byte runs", ErrInvalidRuns, o.Filename)
	}
	slices.SortFunc(runs, func(a, b ByteRun) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	var size uint64
	for _, run := range runs {
		if run.Offset != size {
			return nil, fmt.Errorf("%w: %q has a gap at offset %d", ErrInvalidRuns, o.Filename, size)
		}

		end := run.ImgOffset + run.Length
		if end < run.ImgOffset || end > imgSize {
			return nil, fmt.Errorf("%w: %q run %d+%d exceeds image size %d",
				ErrInvalidRuns, o.Filename, run.ImgOffset, run.Length, imgSize)
		}
		size += run.Length
	}

	if len(runs) == 1 {
		return io.NewSectionReader(img, int64(runs[0].ImgOffset), int64(size)), nil
	}
	return io.NewSectionReader(runReader{img: img, runs: runs}, 0, int64(size)), nil
}

// runReader maps file offsets to image offsets through sorted, gapless runs.
type runReader struct {
	img  io.ReaderAt
	runs []ByteRun
}

func (r runReader) ReadAt(p []byte, off int64) (int, error) {
	n := 0
	for _, run := range r.runs {
		end := int64(run.Offset + run.Length)
		if off >= end {
			continue
		}
		if len(p) == 0 {
			break
		}

		k := min(int64(len(p)), end-off)
		m, err := r.img.ReadAt(p[:k], int64(run.ImgOffset)+off-int64(run.Offset))
		n += m
		off += int64(m)
		p = p[m:]

		if int64(m) < k {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return n, err
		}
	}

	if len(p) > 0 {
		return n, io.EOF
	}
	return n, nil
}

package extract

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ostafen/extractinator/internal/mmap"
	"github.com/ostafen/extractinator/pkg/dfxml"
)

// ReadReport loads the file objects listed in a carve report.
func ReadReport(path string) ([]dfxml.FileObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %q: %w", path, err)
	}
	defer f.Close()

	objs, err := dfxml.ReadFileObjects(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", path, err)
	}
	return objs, nil
}

// Recover saves the artifacts described by objs, reading their byte runs
// from the image at imagePath, without scanning it again.
// It returns the number of artifacts saved.
func Recover(ctx context.Context, imagePath string, objs []dfxml.FileObject, sink Sink, log *slog.Logger) (int, error) {
	img, err := mmap.Open(imagePath)
	if err != nil {
		return 0, err
	}
	defer img.Close()

	saved := 0
	for _, obj := range objs {
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		r, err := obj.Open(img, uint64(img.Size()))
		if err != nil {
			log.Error("unable to recover file", "name", obj.Filename, "err", err)
			continue
		}

		log.Info(fmt.Sprintf("recovering file %s", obj.Filename))
		if err := sink.Save(obj.Filename, r); err != nil {
			log.Error("unable to save file", "name", obj.Filename, "err", err)
			continue
		}
		saved++
	}
	return saved, nil
}

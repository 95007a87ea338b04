package mmap

import (
	"fmt"
	"io"
	"os"

	mmapgo "github.com/edsrzf/mmap-go"
)

// File exposes the whole content of a file as a read-only byte slice.
// Regular files are memory mapped; anything that cannot be mapped
// (pipes, character devices, empty files) is read into memory instead.
type File struct {
	Data []byte
	Path string

	f      *os.File
	mapped mmapgo.MMap
}

func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	finfo, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}
	if finfo.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}

	mf := &File{Path: path, f: f}

	if finfo.Mode().IsRegular() && finfo.Size() > 0 {
		m, err := mmapgo.Map(f, mmapgo.RDONLY, 0)
		if err == nil {
			adviseSequential(m)

			mf.mapped = m
			mf.Data = m
			return mf, nil
		}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	mf.Data = data
	return mf, nil
}

// Mapped reports whether Data is backed by a memory mapping.
func (mf *File) Mapped() bool {
	return mf.mapped != nil
}

func (mf *File) Size() int {
	return len(mf.Data)
}

// ReadAt lets the mapped data back section readers (report-driven recovery, FUSE).
func (mf *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= int64(len(mf.Data)) {
		return 0, io.EOF
	}

	n := copy(p, mf.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping and the underlying file. Data must not be used afterwards.
func (mf *File) Close() error {
	var err error
	if mf.mapped != nil {
		if err = mf.mapped.Unmap(); err != nil {
			err = fmt.Errorf("failed to munmap: %w", err)
		}
		mf.mapped = nil
	}
	mf.Data = nil

	if mf.f != nil {
		if closeErr := mf.f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
		mf.f = nil
	}
	return err
}

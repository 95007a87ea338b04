package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink persists carved artifacts.
type Sink interface {
	Save(name string, r io.Reader) error
}

// DirSink writes each artifact as a file inside Dir, replacing any previous file of the same name.
type DirSink struct {
	Dir string
}

func (s DirSink) Save(name string, r io.Reader) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return dumpFile(s.Dir, name, r)
}

func dumpFile(dir string, name string, r io.Reader) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024)
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to write file %q: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file %q: %w", name, err)
	}
	return f.Close()
}

// MemSink keeps artifacts in memory. Useful for dry runs and tests.
type MemSink map[string][]byte

func (s MemSink) Save(name string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	s[name] = buf.Bytes()
	return nil
}

// DiscardSink accepts and drops everything.
type DiscardSink struct{}

func (DiscardSink) Save(_ string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

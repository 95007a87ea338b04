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
package fuse

import (
	"fmt"
	"io"

	"github.com/ostafen/extractinator/pkg/dfxml"
)

// Entry is one artifact exposed by the mount.
type Entry struct {
	Name string
	Size uint64

	r io.ReaderAt
}

func (e Entry) ReadAt(p []byte, off int64) (int, error) {
	return e.r.ReadAt(p, off)
}

// Entries maps the objects of a carve report onto img, an image of imgSize bytes.
// Names must be unique and every object must lie inside the image.
func Entries(img io.ReaderAt, imgSize uint64, objs []dfxml.FileObject) ([]Entry, error) {
	seen := make(map[string]bool, len(objs))
	entries := make([]Entry, 0, len(objs))
	for _, obj := range objs {
		if obj.Filename == "" {
			return nil, fmt.Errorf("invalid report file: entry with empty name")
		}
		if seen[obj.Filename] {
			return nil, fmt.Errorf("invalid report file: duplicate entry %q", obj.Filename)
		}
		seen[obj.Filename] = true

		r, err := obj.Open(img, imgSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name: obj.Filename,
			Size: uint64(r.Size()),
			r:    r,
		})
	}
	return entries, nil
}

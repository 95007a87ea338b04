//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// ArtifactFS is a read-only flat directory of carved artifacts.
type ArtifactFS struct {
	entries map[string]*File
	names   []string
	mtime   time.Time
}

func NewArtifactFS(entries []Entry) *ArtifactFS {
	afs := &ArtifactFS{
		entries: make(map[string]*File, len(entries)),
		names:   make([]string, 0, len(entries)),
		mtime:   time.Now(),
	}
	for _, e := range entries {
		afs.names = append(afs.names, e.Name)
	}
	sort.Strings(afs.names)

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	// inode 1 is the root
	for i, name := range afs.names {
		afs.entries[name] = &File{
			entry: byName[name],
			inode: uint64(i + 2),
			mtime: afs.mtime,
		}
	}
	return afs
}

func (afs *ArtifactFS) Root() (fs.Node, error) {
	return &Dir{fs: afs}, nil
}

// Dir implements both fs.Node and fs.HandleReadDirAller
type Dir struct {
	fs *ArtifactFS
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = 1
	a.Mode = os.ModeDir | 0555
	a.Mtime = d.fs.mtime
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if f, ok := d.fs.entries[name]; ok {
		return f, nil
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirEntries := make([]fuse.Dirent, len(d.fs.names))
	for i, name := range d.fs.names {
		dirEntries[i] = fuse.Dirent{
			Inode: d.fs.entries[name].inode,
			Name:  name,
			Type:  fuse.DT_File,
		}
	}
	return dirEntries, nil
}

// File implements both fs.Node and fs.HandleReader
type File struct {
	entry Entry
	inode uint64
	mtime time.Time
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0444
	a.Size = f.entry.Size
	a.Mtime = f.mtime
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := int64(req.Size)
	offset := req.Offset
	fileSize := int64(f.entry.Size)

	if offset >= fileSize {
		resp.Data = []byte{}
		return nil
	}

	// Clamp size if reading near EOF
	if offset+size > fileSize {
		size = fileSize - offset
	}

	buf := make([]byte, size)
	n, err := f.entry.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}

	resp.Data = buf[:n]
	return nil
}

// Package archive reads chat data exports: a zip file or an extracted
// directory holding users.json, conversations.json and, optionally,
// projects.json at any depth.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Entry is a single named item inside an archive.
type Entry interface {
	Name() string
	IsDir() bool
	Open() (io.ReadCloser, error)
}

// Archive lists the entries of an opened export.
type Archive interface {
	Entries() ([]Entry, error)
}

type zipArchive struct {
	r *zip.Reader
}

// FromZip wraps an opened zip reader.
func FromZip(r *zip.Reader) Archive {
	return &zipArchive{r: r}
}

// FromBytes opens an in-memory zip file.
func FromBytes(data []byte) (Archive, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}
	return FromZip(r), nil
}

func (a *zipArchive) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(a.r.File))
	for _, f := range a.r.File {
		entries = append(entries, zipEntry{f: f})
	}
	return entries, nil
}

type zipEntry struct {
	f *zip.File
}

func (e zipEntry) Name() string                 { return e.f.Name }
func (e zipEntry) IsDir() bool                  { return e.f.FileInfo().IsDir() }
func (e zipEntry) Open() (io.ReadCloser, error) { return e.f.Open() }

type fsArchive struct {
	fsys fs.FS
}

// FromFS wraps a file system holding an extracted export.
func FromFS(fsys fs.FS) Archive {
	return &fsArchive{fsys: fsys}
}

func (a *fsArchive) Entries() ([]Entry, error) {
	var entries []Entry
	err := fs.WalkDir(a.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		entries = append(entries, fsEntry{fsys: a.fsys, path: path, dir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk export directory: %w", err)
	}
	return entries, nil
}

type fsEntry struct {
	fsys fs.FS
	path string
	dir  bool
}

func (e fsEntry) Name() string                 { return e.path }
func (e fsEntry) IsDir() bool                  { return e.dir }
func (e fsEntry) Open() (io.ReadCloser, error) { return e.fsys.Open(e.path) }

// File is an archive opened from disk. Close releases the underlying file.
type File struct {
	Archive
	Path   string
	closer io.Closer
}

// OpenFile opens a zip file, or a directory holding an extracted export.
func OpenFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if info.IsDir() {
		return &File{Archive: FromFS(os.DirFS(path)), Path: path}, nil
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}
	return &File{Archive: FromZip(&rc.Reader), Path: path, closer: rc}, nil
}

func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

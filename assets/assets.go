// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets finds engine files in directories, kar archives and
// packr boxes behind one interface.
package assets

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devblok/umbra/utility/kar"
	"github.com/gobuffalo/packd"
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// ErrNotFound is returned when no source has the file.
var ErrNotFound = errors.New("asset not found")

// Source finds files by slash separated name. *kar.Archive,
// packr.Box and Dir implement it.
type Source interface {
	packd.Finder
}

// Dir is a directory on disk.
type Dir string

// Find implements packd.Finder.
func (d Dir) Find(name string) ([]byte, error) {
	data, err := os.ReadFile(d.Path(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "%s in %s", name, string(d))
	}
	return data, errors.Wrapf(err, "read %s", name)
}

// FindString implements packd.Finder.
func (d Dir) FindString(name string) (string, error) {
	data, err := d.Find(name)
	return string(data), err
}

// Path returns the file system path of name.
func (d Dir) Path(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(name))
}

// Archive is a memory mapped kar archive.
type Archive struct {
	*kar.Archive
	file *mmap.ReaderAt
}

// OpenArchive maps the archive at path.
func OpenArchive(path string) (*Archive, error) {
	file, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}
	ar, err := kar.Open(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &Archive{Archive: ar, file: file}, nil
}

// Find implements packd.Finder.
func (a *Archive) Find(name string) ([]byte, error) {
	data, err := a.Archive.ReadAll(name)
	if errors.Is(err, kar.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s in archive", name)
	}
	return data, err
}

// FindString implements packd.Finder.
func (a *Archive) FindString(name string) (string, error) {
	data, err := a.Find(name)
	return string(data), err
}

// Close unmaps the archive.
func (a *Archive) Close() error {
	return a.file.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns a kar archive for paths ending in .kar and a Dir
// otherwise. The closer releases the source.
func Open(path string) (Source, io.Closer, error) {
	if strings.EqualFold(filepath.Ext(path), ".kar") {
		ar, err := OpenArchive(path)
		if err != nil {
			return nil, nil, err
		}
		return ar, ar, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open assets")
	}
	if !info.IsDir() {
		return nil, nil, errors.Errorf("%s is neither a directory nor a kar archive", path)
	}
	return Dir(path), nopCloser{}, nil
}

// Multi searches its sources in order.
type Multi []Source

// Find implements packd.Finder. The first source that has name wins.
func (m Multi) Find(name string) ([]byte, error) {
	for _, s := range m {
		data, err := s.Find(name)
		if err == nil {
			return data, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s in %d sources", name, len(m))
}

// FindString implements packd.Finder.
func (m Multi) FindString(name string) (string, error) {
	data, err := m.Find(name)
	return string(data), err
}

// IsNotFound reports whether err means the file does not exist in a source.
// packr boxes report missing files with os.ErrNotExist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, kar.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

var (
	_ Source = Dir("")
	_ Source = (*Archive)(nil)
	_ Source = Multi(nil)
)

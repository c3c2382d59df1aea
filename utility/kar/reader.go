// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
)

// maxHeaderSize bounds the header allocation of a corrupt archive.
const maxHeaderSize = 64 << 20

// sizer is implemented by readers that know their length,
// like *bytes.Reader, *os.File wrappers and mmap.ReaderAt.
type sizer interface {
	Size() int64
}

type lener interface {
	Len() int
}

func readerSize(r io.ReaderAt) (int64, bool) {
	switch s := r.(type) {
	case sizer:
		return s.Size(), true
	case lener:
		return int64(s.Len()), true
	}
	return 0, false
}

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	head := make([]byte, MagicLength+HeaderSizeNumberLength)
	if err := readFull(r, head, 0); err != nil {
		return nil, err
	}
	if !bytes.Equal(head[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(head[MagicLength:])
	if err != nil {
		return nil, err
	}
	if headerSize <= 0 || headerSize > maxHeaderSize {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if err := readFull(r, headerBytes, int64(len(head))); err != nil {
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileFormat, err.Error())
	}

	ar := &Archive{
		reader: r,
		header: header,
		base:   int64(len(head)) + headerSize,
	}
	size, known := readerSize(r)
	for _, e := range header.Index {
		if e.Offset < 0 || e.CompressedSize < 0 || e.Size < 0 {
			return nil, ErrFileFormat
		}
		if known && ar.base+e.Offset+e.CompressedSize > size {
			return nil, fmt.Errorf("%w: %s extends past the end", ErrFileFormat, e.Name)
		}
	}
	return ar, nil
}

func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		return ErrFileFormat
	}
	return err
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader io.ReaderAt
	header Header
	base   int64
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// List returns the names of all files in index order.
func (a *Archive) List() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, e := range a.header.Index {
		names = append(names, e.Name)
	}
	return names
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data := make([]byte, r.size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// Find implements packd.Finder.
func (a *Archive) Find(name string) ([]byte, error) {
	return a.ReadAll(name)
}

// FindString implements packd.Finder.
func (a *Archive) FindString(name string) (string, error) {
	data, err := a.ReadAll(name)
	return string(data), err
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	e, ok := a.header.Find(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	section := io.NewSectionReader(a.reader, a.base+e.Offset, e.CompressedSize)
	return &Reader{
		archive: a,
		size:    e.Size,
		lz:      lz4.NewReader(section),
	}, nil
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	archive *Archive
	size    int64
	lz      *lz4.Reader
}

// Size returns the decompressed size of the file.
func (r *Reader) Size() int64 {
	return r.size
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.lz.Read(p)
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"bytes"
	"encoding/binary"
	"math"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrFormat is wrapped by every decoding error.
var ErrFormat = errors.New("malformed file")

// reader decodes little endian records and checks every access
// against the length of the data.
type reader struct {
	name string
	data []byte
	off  int
}

func newReader(name string, data []byte) *reader {
	return &reader{name: name, data: data}
}

func (r *reader) errorf(format string, args ...interface{}) error {
	args = append([]interface{}{r.name}, args...)
	return errors.Wrapf(ErrFormat, "%s: "+format, args...)
}

// need checks that count records of size bytes follow.
func (r *reader) need(count, size uint64, what string) error {
	left := uint64(len(r.data) - r.off)
	if size != 0 && count > left/size {
		return r.errorf("%d %s of %d bytes at offset %d exceed the %d bytes left", count, what, size, r.off, left)
	}
	return nil
}

func (r *reader) signature(want string) error {
	if err := r.need(1, uint64(len(want)), "signature"); err != nil {
		return err
	}
	got := r.data[r.off : r.off+len(want)]
	if !bytes.Equal(got, []byte(want)) {
		return r.errorf("bad signature %q", got)
	}
	r.off += len(want)
	return nil
}

// The accessors below must only be called after need covered them.

func (r *reader) uint32() uint32 {
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *reader) vec2() glm.Vec2 {
	return glm.Vec2{r.float32(), r.float32()}
}

func (r *reader) vec3() glm.Vec3 {
	return glm.Vec3{r.float32(), r.float32(), r.float32()}
}

func (r *reader) vec4() glm.Vec4 {
	return glm.Vec4{r.float32(), r.float32(), r.float32(), r.float32()}
}

func (r *reader) bytes(n int) []byte {
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// cstring reads a fixed size NUL padded string.
func (r *reader) cstring(n int) string {
	b := r.bytes(n)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// writer is the encoding counterpart of reader.
type writer struct {
	bytes.Buffer
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *writer) float32s(fs ...float32) {
	for _, f := range fs {
		w.uint32(math.Float32bits(f))
	}
}

func (w *writer) cstring(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.Write(b)
}

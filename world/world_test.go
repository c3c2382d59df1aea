// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *Model {
	return &Model{
		Name:   "quad.sm",
		Colour: glm.Vec4{1, 0, 0, 1},
		Vertices: []Vertex{
			{Position: glm.Vec3{0, 0, 0}, Normal: glm.Vec3{0, 0, 1}, UV: glm.Vec2{0, 0}},
			{Position: glm.Vec3{1, 0, 0}, Normal: glm.Vec3{0, 0, 1}, UV: glm.Vec2{1, 0}},
			{Position: glm.Vec3{1, 1, 0}, Normal: glm.Vec3{0, 0, 1}, UV: glm.Vec2{1, 1}},
			{Position: glm.Vec3{0, 1, 0}, Normal: glm.Vec3{0, 0, 1}, UV: glm.Vec2{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

func twoObjects() *World {
	return &World{
		Name:     "two.sw",
		Models:   []string{"m1.sm", "m2.sm"},
		Textures: []string{"t1.simg", "t2.simg"},
		Objects: []Object{
			{Model: 0, Texture: 0, Scale: glm.Vec3{1, 1, 1}},
			{Model: 1, Texture: 1, Position: glm.Vec3{5, 0, 0}, Scale: glm.Vec3{1, 1, 1}},
		},
		Cuboids: []Cuboid{{Centre: glm.Vec3{0, 1, 0}, Dimension: glm.Vec3{2, 2, 2}}},
	}
}

func TestReadModel(t *testing.T) {
	data := quad().Encode()
	assert.Len(t, data, modelHeaderSize+4*VertexSize+6*4)

	m, err := ReadModel("quad.sm", data)
	require.NoError(t, err)
	assert.Equal(t, quad(), m)
}

func TestVertexDataLayout(t *testing.T) {
	data := quad().VertexData()
	require.Len(t, data, 4*VertexSize)

	f := func(off int) float32 {
		return math.Float32frombits(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
	}
	second := VertexSize
	assert.Equal(t, float32(1), f(second))
	assert.Equal(t, float32(1), f(second+20))
	assert.Equal(t, float32(1), f(second+24))
	assert.Equal(t, float32(0), f(second+28))
}

func TestReadModelRejects(t *testing.T) {
	good := quad().Encode()

	for name, data := range map[string][]byte{
		"short header":      good[:10],
		"bad signature":     append([]byte("XX\x00\x00"), good[4:]...),
		"truncated vertex":  good[:modelHeaderSize+VertexSize+3],
		"truncated indices": good[:len(good)-2],
	} {
		_, err := ReadModel(name, data)
		assert.True(t, errors.Is(err, ErrFormat), name)
	}

	huge := append([]byte(nil), good...)
	huge[4], huge[5], huge[6], huge[7] = 0xff, 0xff, 0xff, 0xff
	_, err := ReadModel("huge", huge)
	assert.True(t, errors.Is(err, ErrFormat))

	m := quad()
	m.Indices[5] = 4
	_, err = ReadModel("index", m.Encode())
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestReadTexture(t *testing.T) {
	tex := &Texture{Name: "t.simg", Width: 2, Height: 1, Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	got, err := ReadTexture("t.simg", tex.Encode())
	require.NoError(t, err)
	assert.Equal(t, tex, got)

	_, err = ReadTexture("short", tex.Encode()[:15])
	assert.True(t, errors.Is(err, ErrFormat))

	empty := &Texture{Width: 0, Height: 4}
	_, err = ReadTexture("empty", empty.Encode())
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestDecodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeImage("red.png", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Len(t, tex.Pixels, 16)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[4:8])

	_, err = DecodeImage("junk.png", []byte("junk"))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestGetPixelsRowPitch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	pixels, err := GetPixels(img, 0)
	require.NoError(t, err)
	assert.Len(t, pixels, 24)

	pixels, err = GetPixels(img, 16)
	require.NoError(t, err)
	assert.Len(t, pixels, 32)
}

func TestReadWorld(t *testing.T) {
	w, err := ReadWorld("two.sw", twoObjects().Encode())
	require.NoError(t, err)
	assert.Equal(t, twoObjects(), w)
}

func TestReadWorldRejects(t *testing.T) {
	w := twoObjects()
	w.Objects[1].Texture = 2
	_, err := ReadWorld("texture", w.Encode())
	assert.True(t, errors.Is(err, ErrFormat))

	w = twoObjects()
	w.Objects[0].Model = 7
	_, err = ReadWorld("model", w.Encode())
	assert.True(t, errors.Is(err, ErrFormat))

	good := twoObjects().Encode()
	_, err = ReadWorld("truncated", good[:len(good)-1])
	assert.True(t, errors.Is(err, ErrFormat))

	_, err = ReadWorld("header", good[:8])
	assert.True(t, errors.Is(err, ErrFormat))

	w = twoObjects()
	for len(w.Models) <= MaxModels {
		w.Models = append(w.Models, "filler.sm")
	}
	_, err = ReadWorld("limit", w.Encode())
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestObjectTransform(t *testing.T) {
	o := Object{Position: glm.Vec3{5, 0, 0}, Scale: glm.Vec3{2, 2, 2}}
	p := o.Transform().Mul4x1(glm.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 7, p.X(), 1e-5)

	o = Object{Rotation: glm.Vec3{0, 0, math.Pi / 2}, Scale: glm.Vec3{1, 1, 1}}
	p = o.Transform().Mul4x1(glm.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)
}

type finder map[string][]byte

func (f finder) Find(name string) ([]byte, error) {
	if data, ok := f[name]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func (f finder) FindString(name string) (string, error) {
	data, err := f.Find(name)
	return string(data), err
}

func TestLoad(t *testing.T) {
	tex := &Texture{Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}}
	src := finder{
		"two.sw":  twoObjects().Encode(),
		"m1.sm":   quad().Encode(),
		"m2.sm":   quad().Encode(),
		"t1.simg": tex.Encode(),
		"t2.simg": tex.Encode(),
	}

	b, err := Load(src, "two.sw")
	require.NoError(t, err)
	assert.Len(t, b.Models, 2)
	assert.Len(t, b.Textures, 2)
	assert.Equal(t, "m2.sm", b.Models[1].Name)

	delete(src, "t2.simg")
	_, err = Load(src, "two.sw")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.sw"), []byte("x"), 0644))
	select {
	case name := <-w.Changes():
		assert.Equal(t, "default.sw", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"bytes"
	"image"
	_ "image/png" // png textures

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // bmp textures
	"golang.org/x/image/draw"
)

const (
	textureSignature  = "SIMG"
	textureHeaderSize = 4 + 4 + 4
)

// Texture is an RGBA8 image.
type Texture struct {
	Name   string
	Width  uint32
	Height uint32
	Pixels []byte
}

// ReadTexture decodes a .simg texture.
func ReadTexture(name string, data []byte) (*Texture, error) {
	r := newReader(name, data)
	if err := r.need(1, textureHeaderSize, "header"); err != nil {
		return nil, err
	}
	if err := r.signature(textureSignature); err != nil {
		return nil, err
	}
	t := &Texture{Name: name, Width: r.uint32(), Height: r.uint32()}
	if t.Width == 0 || t.Height == 0 {
		return nil, r.errorf("empty %dx%d texture", t.Width, t.Height)
	}
	if err := r.need(uint64(t.Width)*uint64(t.Height), 4, "pixels"); err != nil {
		return nil, err
	}
	t.Pixels = r.bytes(int(t.Width) * int(t.Height) * 4)
	return t, nil
}

// DecodeImage decodes a BMP or PNG texture.
func DecodeImage(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s: %s", name, err.Error())
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.Wrapf(ErrFormat, "%s: empty image", name)
	}
	pixels, err := GetPixels(img, 0)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return &Texture{
		Name:   name,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pixels: pixels,
	}, nil
}

// GetPixels transforms a given image into right arrangement of pixels
// by drawing the decoded image onto a controlled RGBA canvas. A row
// pitch larger than the tight one pads every row.
func GetPixels(img image.Image, rowPitch int) ([]uint8, error) {
	b := img.Bounds()
	newImg := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if rowPitch > newImg.Stride {
		newImg.Stride = rowPitch
		newImg.Pix = make([]uint8, rowPitch*b.Dy())
	}
	draw.Draw(newImg, newImg.Bounds(), img, b.Min, draw.Src)
	return newImg.Pix, nil
}

// Encode returns the .simg encoding of the texture.
func (t *Texture) Encode() []byte {
	var w writer
	w.WriteString(textureSignature)
	w.uint32(t.Width)
	w.uint32(t.Height)
	w.Write(t.Pixels)
	return w.Bytes()
}

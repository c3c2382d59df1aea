// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"path"
	"strings"

	"github.com/gobuffalo/packd"
	"github.com/pkg/errors"
)

// Bundle is a world with its models and textures loaded, in the
// order the world lists them.
type Bundle struct {
	World    *World
	Models   []*Model
	Textures []*Texture
}

// Load reads the world file name and everything it refers to from src.
func Load(src packd.Finder, name string) (*Bundle, error) {
	data, err := src.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "load world %s", name)
	}
	w, err := ReadWorld(name, data)
	if err != nil {
		return nil, err
	}

	b := &Bundle{World: w}
	for _, m := range w.Models {
		model, err := LoadModel(src, m)
		if err != nil {
			return nil, errors.Wrapf(err, "world %s", name)
		}
		b.Models = append(b.Models, model)
	}
	for _, t := range w.Textures {
		texture, err := LoadTexture(src, t)
		if err != nil {
			return nil, errors.Wrapf(err, "world %s", name)
		}
		b.Textures = append(b.Textures, texture)
	}
	return b, nil
}

// LoadModel reads a .sm model, or a Collada model for .dae names.
func LoadModel(src packd.Finder, name string) (*Model, error) {
	data, err := src.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", name)
	}
	if strings.EqualFold(path.Ext(name), ".dae") {
		return ImportCollada(name, data)
	}
	return ReadModel(name, data)
}

// LoadTexture reads a .simg texture, or decodes .bmp and .png images.
func LoadTexture(src packd.Finder, name string) (*Texture, error) {
	data, err := src.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "load texture %s", name)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".bmp", ".png":
		return DecodeImage(name, data)
	default:
		return ReadTexture(name, data)
	}
}

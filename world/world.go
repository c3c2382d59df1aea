// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package world reads worlds, models and textures. Every reader checks
// signatures, counts and indices against the data before using them.
package world

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// World file limits.
const (
	MaxModels   = 100
	MaxTextures = MaxModels
	MaxObjects  = 1000
	MaxCuboids  = MaxObjects

	// NameLength is the fixed size of a file name record.
	NameLength = 20
)

const (
	worldSignature  = "SW\x00\x00"
	worldHeaderSize = 4 + 4*4
	objectSize      = 4 + 4 + 3*12
	cuboidSize      = 2 * 12
)

// Object places a model with a texture in the world.
// Rotation is in radians.
type Object struct {
	Model    uint32
	Texture  uint32
	Position glm.Vec3
	Rotation glm.Vec3
	Scale    glm.Vec3
}

// Transform returns translate · rotZ · rotY · rotX · scale.
func (o Object) Transform() glm.Mat4 {
	return glm.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z()).
		Mul4(glm.HomogRotate3DZ(o.Rotation.Z())).
		Mul4(glm.HomogRotate3DY(o.Rotation.Y())).
		Mul4(glm.HomogRotate3DX(o.Rotation.X())).
		Mul4(glm.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z()))
}

// Cuboid is an axis aligned collision volume.
type Cuboid struct {
	Centre    glm.Vec3
	Dimension glm.Vec3
}

// World lists the model and texture files of a scene and the objects
// placed in it.
type World struct {
	Name     string
	Models   []string
	Textures []string
	Objects  []Object
	Cuboids  []Cuboid
}

// ReadWorld decodes a .sw world.
func ReadWorld(name string, data []byte) (*World, error) {
	r := newReader(name, data)
	if err := r.need(1, worldHeaderSize, "header"); err != nil {
		return nil, err
	}
	if err := r.signature(worldSignature); err != nil {
		return nil, err
	}
	modelCount, textureCount := r.uint32(), r.uint32()
	objectCount, cuboidCount := r.uint32(), r.uint32()

	for _, c := range []struct {
		what  string
		count uint32
		max   uint32
	}{
		{"models", modelCount, MaxModels},
		{"textures", textureCount, MaxTextures},
		{"objects", objectCount, MaxObjects},
		{"cuboids", cuboidCount, MaxCuboids},
	} {
		if c.count > c.max {
			return nil, r.errorf("%d %s exceed the limit of %d", c.count, c.what, c.max)
		}
	}

	w := &World{Name: name}
	if err := r.need(uint64(modelCount), NameLength, "model names"); err != nil {
		return nil, err
	}
	for i := uint32(0); i < modelCount; i++ {
		w.Models = append(w.Models, r.cstring(NameLength))
	}
	if err := r.need(uint64(textureCount), NameLength, "texture names"); err != nil {
		return nil, err
	}
	for i := uint32(0); i < textureCount; i++ {
		w.Textures = append(w.Textures, r.cstring(NameLength))
	}

	if err := r.need(uint64(objectCount), objectSize, "objects"); err != nil {
		return nil, err
	}
	for i := uint32(0); i < objectCount; i++ {
		o := Object{Model: r.uint32(), Texture: r.uint32()}
		o.Position, o.Rotation, o.Scale = r.vec3(), r.vec3(), r.vec3()
		if o.Model >= modelCount {
			return nil, r.errorf("object %d uses model %d of %d", i, o.Model, modelCount)
		}
		if o.Texture >= textureCount {
			return nil, r.errorf("object %d uses texture %d of %d", i, o.Texture, textureCount)
		}
		w.Objects = append(w.Objects, o)
	}

	if err := r.need(uint64(cuboidCount), cuboidSize, "cuboids"); err != nil {
		return nil, err
	}
	for i := uint32(0); i < cuboidCount; i++ {
		w.Cuboids = append(w.Cuboids, Cuboid{Centre: r.vec3(), Dimension: r.vec3()})
	}
	return w, nil
}

// Encode returns the .sw encoding of the world. Names longer than
// NameLength are truncated.
func (w *World) Encode() []byte {
	var b writer
	b.WriteString(worldSignature)
	b.uint32(uint32(len(w.Models)))
	b.uint32(uint32(len(w.Textures)))
	b.uint32(uint32(len(w.Objects)))
	b.uint32(uint32(len(w.Cuboids)))
	for _, m := range w.Models {
		b.cstring(m, NameLength)
	}
	for _, t := range w.Textures {
		b.cstring(t, NameLength)
	}
	for _, o := range w.Objects {
		b.uint32(o.Model)
		b.uint32(o.Texture)
		b.float32s(o.Position[:]...)
		b.float32s(o.Rotation[:]...)
		b.float32s(o.Scale[:]...)
	}
	for _, c := range w.Cuboids {
		b.float32s(c.Centre[:]...)
		b.float32s(c.Dimension[:]...)
	}
	return b.Bytes()
}

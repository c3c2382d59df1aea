// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"encoding/binary"
	"math"

	glm "github.com/go-gl/mathgl/mgl32"
)

const (
	modelSignature  = "SM\x00\x00"
	modelHeaderSize = 4 + 4 + 4 + 16

	// VertexSize is the encoded size of a Vertex.
	VertexSize = 32
)

// Vertex is a model vertex
type Vertex struct {
	Position glm.Vec3
	Normal   glm.Vec3
	UV       glm.Vec2
}

// Model is an indexed triangle list.
type Model struct {
	Name     string
	Colour   glm.Vec4
	Vertices []Vertex
	Indices  []uint32
}

// ReadModel decodes a .sm model.
func ReadModel(name string, data []byte) (*Model, error) {
	r := newReader(name, data)
	if err := r.need(1, modelHeaderSize, "header"); err != nil {
		return nil, err
	}
	if err := r.signature(modelSignature); err != nil {
		return nil, err
	}
	vertexCount := r.uint32()
	indexCount := r.uint32()
	m := &Model{Name: name, Colour: r.vec4()}

	if err := r.need(uint64(vertexCount), VertexSize, "vertices"); err != nil {
		return nil, err
	}
	m.Vertices = make([]Vertex, vertexCount)
	for i := range m.Vertices {
		m.Vertices[i] = Vertex{Position: r.vec3(), Normal: r.vec3(), UV: r.vec2()}
	}

	if err := r.need(uint64(indexCount), 4, "indices"); err != nil {
		return nil, err
	}
	m.Indices = make([]uint32, indexCount)
	for i := range m.Indices {
		m.Indices[i] = r.uint32()
	}
	return m, m.validate(r)
}

func (m *Model) validate(r *reader) error {
	if len(m.Indices) == 0 {
		return r.errorf("model has no indices")
	}
	for i, idx := range m.Indices {
		if idx >= uint32(len(m.Vertices)) {
			return r.errorf("index %d refers to vertex %d of %d", i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Encode returns the .sm encoding of the model.
func (m *Model) Encode() []byte {
	var w writer
	w.WriteString(modelSignature)
	w.uint32(uint32(len(m.Vertices)))
	w.uint32(uint32(len(m.Indices)))
	w.float32s(m.Colour[:]...)
	w.Write(m.VertexData())
	w.Write(m.IndexData())
	return w.Bytes()
}

// VertexData returns the vertices as the vertex buffer expects them.
func (m *Model) VertexData() []byte {
	data := make([]byte, len(m.Vertices)*VertexSize)
	for i, v := range m.Vertices {
		off := i * VertexSize
		for j, f := range []float32{
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		} {
			binary.LittleEndian.PutUint32(data[off+j*4:], math.Float32bits(f))
		}
	}
	return data
}

// IndexData returns the 32 bit indices as the index buffer expects them.
func (m *Model) IndexData() []byte {
	data := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(data[i*4:], idx)
	}
	return data
}

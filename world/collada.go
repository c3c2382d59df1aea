// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"github.com/devblok/umbra/util/collada"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ImportCollada converts the first geometry of a Collada document into
// a model. Triangle corners sharing position, normal and uv indices
// share a vertex.
func ImportCollada(name string, data []byte) (*Model, error) {
	doc, err := collada.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s: %s", name, err.Error())
	}
	if len(doc.Geometries) == 0 {
		return nil, errors.Wrapf(ErrFormat, "%s: no geometry", name)
	}
	mesh := doc.Geometries[0].Mesh
	tris := mesh.Triangles

	stride := tris.Stride()
	if stride == 0 || len(tris.Index)%stride != 0 || len(tris.Index)/stride%3 != 0 {
		return nil, errors.Wrapf(ErrFormat, "%s: %d triangle indices with stride %d", name, len(tris.Index), stride)
	}

	type attribute struct {
		offset int
		source collada.Source
	}
	resolve := func(semantic string, required bool) (*attribute, error) {
		in, ok := tris.Input(semantic)
		if !ok {
			if required {
				return nil, errors.Wrapf(ErrFormat, "%s: no %s input", name, semantic)
			}
			return nil, nil
		}
		src, err := mesh.Lookup(in.Source)
		if err != nil {
			return nil, errors.Wrapf(ErrFormat, "%s: %s", name, err.Error())
		}
		return &attribute{offset: int(in.Offset), source: src}, nil
	}

	position, err := resolve(collada.SemanticVertex, true)
	if err != nil {
		return nil, err
	}
	normal, err := resolve(collada.SemanticNormal, false)
	if err != nil {
		return nil, err
	}
	uv, err := resolve(collada.SemanticTexCoord, false)
	if err != nil {
		return nil, err
	}

	m := &Model{Name: name, Colour: glm.Vec4{1, 1, 1, 1}}
	seen := make(map[[3]int]uint32)
	for corner := 0; corner < len(tris.Index)/stride; corner++ {
		idx := tris.Index[corner*stride : (corner+1)*stride]
		key := [3]int{idx[position.offset], -1, -1}
		if normal != nil {
			key[1] = idx[normal.offset]
		}
		if uv != nil {
			key[2] = idx[uv.offset]
		}
		if v, ok := seen[key]; ok {
			m.Indices = append(m.Indices, v)
			continue
		}

		var vert Vertex
		p, err := position.source.Element(key[0])
		if err != nil || len(p) < 3 {
			return nil, errors.Wrapf(ErrFormat, "%s: position of corner %d", name, corner)
		}
		vert.Position = glm.Vec3{p[0], p[1], p[2]}
		if normal != nil {
			n, err := normal.source.Element(key[1])
			if err != nil || len(n) < 3 {
				return nil, errors.Wrapf(ErrFormat, "%s: normal of corner %d", name, corner)
			}
			vert.Normal = glm.Vec3{n[0], n[1], n[2]}
		}
		if uv != nil {
			t, err := uv.source.Element(key[2])
			if err != nil || len(t) < 2 {
				return nil, errors.Wrapf(ErrFormat, "%s: uv of corner %d", name, corner)
			}
			vert.UV = glm.Vec2{t[0], 1 - t[1]}
		}

		v := uint32(len(m.Vertices))
		seen[key] = v
		m.Vertices = append(m.Vertices, vert)
		m.Indices = append(m.Indices, v)
	}
	if len(m.Indices) == 0 {
		return nil, errors.Wrapf(ErrFormat, "%s: no triangles", name)
	}
	return m, nil
}

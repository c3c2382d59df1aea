// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"testing"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plane = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_geometries>
    <geometry id="Plane-mesh" name="Plane">
      <mesh>
        <source id="Plane-mesh-positions">
          <float_array id="Plane-mesh-positions-array" count="12">-1 -1 0 1 -1 0 -1 1 0 1 1 0</float_array>
          <technique_common><accessor source="#Plane-mesh-positions-array" count="4" stride="3"/></technique_common>
        </source>
        <source id="Plane-mesh-normals">
          <float_array id="Plane-mesh-normals-array" count="3">0 0 1</float_array>
          <technique_common><accessor source="#Plane-mesh-normals-array" count="1" stride="3"/></technique_common>
        </source>
        <source id="Plane-mesh-map-0">
          <float_array id="Plane-mesh-map-0-array" count="8">0 0 1 0 0 1 1 1</float_array>
          <technique_common><accessor source="#Plane-mesh-map-0-array" count="4" stride="2"/></technique_common>
        </source>
        <vertices id="Plane-mesh-vertices">
          <input semantic="POSITION" source="#Plane-mesh-positions"/>
        </vertices>
        <triangles count="2">
          <input semantic="VERTEX" source="#Plane-mesh-vertices" offset="0"/>
          <input semantic="NORMAL" source="#Plane-mesh-normals" offset="1"/>
          <input semantic="TEXCOORD" source="#Plane-mesh-map-0" offset="2" set="0"/>
          <p>1 0 1 2 0 2 0 0 0 1 0 1 3 0 3 2 0 2</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
</COLLADA>`

func TestImportCollada(t *testing.T) {
	m, err := ImportCollada("plane.dae", []byte(plane))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 3, 1}, m.Indices)
	assert.Equal(t, glm.Vec3{1, -1, 0}, m.Vertices[0].Position)
	assert.Equal(t, glm.Vec3{0, 0, 1}, m.Vertices[0].Normal)
	assert.Equal(t, glm.Vec2{1, 1}, m.Vertices[0].UV)
	assert.NotEmpty(t, m.VertexData())
}

func TestImportColladaRejects(t *testing.T) {
	_, err := ImportCollada("junk.dae", []byte("<COLLADA>"))
	assert.True(t, errors.Is(err, ErrFormat))

	_, err = ImportCollada("empty.dae", []byte(`<COLLADA></COLLADA>`))
	assert.True(t, errors.Is(err, ErrFormat))
}

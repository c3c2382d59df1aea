// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package collada_test

import (
	"encoding/xml"
	"testing"

	"github.com/devblok/umbra/util/collada"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrianglesDecode(t *testing.T) {
	data := `
		<triangles material="Material-material" count="12">
		<input semantic="VERTEX" source="#Cube-mesh-vertices" offset="0"/>
		<input semantic="NORMAL" source="#Cube-mesh-normals" offset="1"/>
		<p>0 0 2 0 3 0 7 1 5 1 4 1 4 2 1 2 0 2 5 3 2 3 1 3 2 4 7 4 3 4 0 5 7 5 4 5 0 6 1 6 2 6 7 7 6 7 5 7 4 8 5 8 1 8 5 9 6 9 2 9 2 10 6 10 7 10 0 11 3 11 7 11</p>
		</triangles>
	`
	var triangles collada.Triangles
	require.NoError(t, xml.Unmarshal([]byte(data), &triangles))

	assert.Equal(t, "Material-material", triangles.Material)
	assert.Equal(t, 12, triangles.Count)
	assert.Len(t, triangles.Inputs, 2)
	assert.Len(t, triangles.Index, 12*6)
	assert.Equal(t, 2, triangles.Stride())

	in, ok := triangles.Input(collada.SemanticNormal)
	assert.True(t, ok)
	assert.Equal(t, uint(1), in.Offset)
	_, ok = triangles.Input(collada.SemanticTexCoord)
	assert.False(t, ok)
}

func TestInputDecode(t *testing.T) {
	data := `
	<object>
		<input semantic="VERTEX" source="#Cube-mesh-vertices" offset="0" />
		<input semantic="NORMAL" source="#Cube-mesh-normals" offset="1" />
		<input semantic="TEXTUR" source="#Cube-mesh-textures" offset="2" />
	</object>
	`

	type Object struct {
		XMLNname xml.Name        `xml:"object"`
		Inputs   []collada.Input `xml:"input"`
	}

	var obj Object
	require.NoError(t, xml.Unmarshal([]byte(data), &obj))
	assert.Equal(t, []collada.Input{
		{Semantic: "VERTEX", Source: "#Cube-mesh-vertices", Offset: 0},
		{Semantic: "NORMAL", Source: "#Cube-mesh-normals", Offset: 1},
		{Semantic: "TEXTUR", Source: "#Cube-mesh-textures", Offset: 2},
	}, obj.Inputs)
}

func TestFloatsDecode(t *testing.T) {
	data := `<float_array id="Cube-mesh-normals-array" count="36">0 0 -1 0 0 1 1 0 -2.38419e-7 0 -1 -4.76837e-7 -1 2.38419e-7 -1.49012e-7 2.68221e-7 1 2.38419e-7 0 0 -1 0 0 1 1 -5.96046e-7 3.27825e-7 -4.76837e-7 -1 0 -1 2.38419e-7 -1.19209e-7 2.08616e-7 1 0</float_array>`

	var floats collada.Floats
	require.NoError(t, xml.Unmarshal([]byte(data), &floats))
	assert.Len(t, floats.Data, 36)
	assert.Equal(t, "Cube-mesh-normals-array", floats.ID)
}

const triangle = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_geometries>
    <geometry id="Tri-mesh" name="Tri">
      <mesh>
        <source id="Tri-mesh-positions">
          <float_array id="Tri-mesh-positions-array" count="9">0 0 0
            1 0 0
            0 1 0</float_array>
          <technique_common>
            <accessor source="#Tri-mesh-positions-array" count="3" stride="3"/>
          </technique_common>
        </source>
        <vertices id="Tri-mesh-vertices">
          <input semantic="POSITION" source="#Tri-mesh-positions"/>
        </vertices>
        <triangles count="1">
          <input semantic="VERTEX" source="#Tri-mesh-vertices" offset="0"/>
          <p>0 1 2</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
</COLLADA>`

func TestDecodeAndLookup(t *testing.T) {
	c, err := collada.Decode([]byte(triangle))
	require.NoError(t, err)
	require.Len(t, c.Geometries, 1)

	mesh := c.Geometries[0].Mesh
	assert.Equal(t, []int{0, 1, 2}, mesh.Triangles.Index)

	src, err := mesh.Lookup("#Tri-mesh-vertices")
	require.NoError(t, err)
	assert.Equal(t, "Tri-mesh-positions", src.ID)
	assert.Equal(t, 3, src.Stride())

	el, err := src.Element(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, el)

	_, err = src.Element(3)
	assert.Error(t, err)
	_, err = mesh.Lookup("#missing")
	assert.Error(t, err)
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"testing"

	"github.com/devblok/umbra/world"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	b := &world.Bundle{
		World: &world.World{
			Name:     "default.sw",
			Models:   []string{"cube.sm"},
			Textures: []string{"wood.simg"},
			Objects: []world.Object{
				{Model: 0, Texture: 0, Position: glm.Vec3{1, 2, 3}, Scale: glm.Vec3{1, 1, 1}},
				{Model: 4, Texture: 0},
			},
			Cuboids: []world.Cuboid{{Centre: glm.Vec3{0, 1, 0}, Dimension: glm.Vec3{2, 2, 2}}},
		},
		Models:   []*world.Model{{Name: "cube.sm", Vertices: make([]world.Vertex, 8), Indices: make([]uint32, 36)}},
		Textures: []*world.Texture{{Name: "wood.simg", Width: 64, Height: 32}},
	}

	rows := summarize(b)
	require.Len(t, rows, 5)
	assert.Equal(t, row{"model", "cube.sm", "8 vertices, 36 indices"}, rows[0])
	assert.Equal(t, row{"texture", "wood.simg", "64x32"}, rows[1])
	assert.Equal(t, row{"object", "#0", "cube.sm with wood.simg at (1.00, 2.00, 3.00)"}, rows[2])
	assert.Contains(t, rows[3].Detail, "<missing 4>")
	assert.Equal(t, "cuboid", rows[4].Kind)
	assert.Equal(t, []interface{}{"cuboid", "#0", rows[4].Detail}, rows[4].values())

	assert.Equal(t, "default.sw: 1 models, 1 textures, 2 objects, 1 cuboids", title(b))
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"encoding/binary"
	"math"

	glm "github.com/go-gl/mathgl/mgl32"
)

const mat4Size = 16 * 4

// putMat4 writes m column major into dst as the shaders read it.
func putMat4(dst []byte, m glm.Mat4) {
	for i, f := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

// pushIndex encodes the object index push constant.
func pushIndex(idx uint32) []byte {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, idx)
	return data
}

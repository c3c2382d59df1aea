// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets

import (
	"unsafe"

	"github.com/devblok/umbra/core"
	"github.com/pkg/errors"
)

const shaderSuffix = ".spv"

// ShaderName returns the file name of a compiled shader: the shader
// name, its type and the .spv suffix, like "main.vert.spv".
func ShaderName(name string, t core.ShaderType) string {
	return name + "." + t.String() + shaderSuffix
}

// LoadShader reads SPIR-V code. The code is padded with zeroes to a
// multiple of four bytes.
func LoadShader(src Source, name string) ([]uint32, error) {
	data, err := src.Find(name)
	if err != nil {
		return nil, errors.Wrap(err, "load shader")
	}
	if len(data) == 0 {
		return nil, errors.Errorf("shader %s is empty", name)
	}
	if rem := len(data) % 4; rem != 0 {
		data = append(data, make([]byte, 4-rem)...)
	}
	return SliceUint32(data), nil
}

// LoadShaders loads the vertex and fragment shaders of the shadow and
// main pipelines.
func LoadShaders(src Source) (core.ShaderSet, error) {
	var set core.ShaderSet
	for _, s := range []struct {
		name string
		t    core.ShaderType
		dst  *[]uint32
	}{
		{"shadow", core.VertexShaderType, &set.ShadowVertex},
		{"shadow", core.FragmentShaderType, &set.ShadowFragment},
		{"main", core.VertexShaderType, &set.MainVertex},
		{"main", core.FragmentShaderType, &set.MainFragment},
	} {
		code, err := LoadShader(src, ShaderName(s.name, s.t))
		if err != nil {
			return set, err
		}
		*s.dst = code
	}
	return set, nil
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package shaders holds the GLSL sources of the shadow and main
// pipelines. The compiled .spv files are embedded into cmd/umbra with
// packr and can be overridden by files of the same name in the assets.
package shaders

//go:generate glslc shadow.vert -o shadow.vert.spv
//go:generate glslc shadow.frag -o shadow.frag.spv
//go:generate glslc main.vert -o main.vert.spv
//go:generate glslc main.frag -o main.frag.spv

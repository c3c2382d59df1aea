// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core is the rendering core: resources, the swapchain, frame
// synchronisation and the two pass render pipeline, tied together by Engine.
package core

import (
	"github.com/devblok/umbra/gfx"
	log "github.com/sirupsen/logrus"
)

// Context is the engine state every component is created with.
type Context struct {
	Device  gfx.Device
	Factory *ResourceFactory
	Log     *log.Entry
}

// NewContext wraps a logical device. A nil logger means the standard logger.
func NewContext(device gfx.Device, logger *log.Entry) *Context {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Context{
		Device:  device,
		Factory: NewResourceFactory(device),
		Log:     logger,
	}
}

// logger returns the context logger tagged with a component name.
func (c *Context) logger(component string) *log.Entry {
	return c.Log.WithField("component", component)
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
)

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vert"
	case FragmentShaderType:
		return "frag"
	default:
		return "unknown"
	}
}

// ShaderSet holds the SPIR-V code of both pipelines.
type ShaderSet struct {
	ShadowVertex   []uint32
	ShadowFragment []uint32
	MainVertex     []uint32
	MainFragment   []uint32
}

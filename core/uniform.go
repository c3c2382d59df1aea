// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Scene limits.
const (
	MaxObjects = 1000
	MaxModels  = 100
)

const (
	frameBlockSize  = 4 * mat4Size
	objectBlockSize = MaxObjects * mat4Size
)

// FrameUniforms is the per frame camera and light block.
type FrameUniforms struct {
	Projection      glm.Mat4
	View            glm.Mat4
	LightProjection glm.Mat4
	LightView       glm.Mat4
}

// NewUniforms creates the frame and object uniform buffers and maps them
// for the lifetime of the buffers.
func NewUniforms(ctx *Context) (*Uniforms, error) {
	frame, err := ctx.Factory.NewBuffer(frameBlockSize, gfx.BufferUsageUniformBuffer, true)
	if err != nil {
		return nil, err
	}
	objects, err := ctx.Factory.NewBuffer(objectBlockSize, gfx.BufferUsageUniformBuffer, true)
	if err != nil {
		frame.Release()
		return nil, err
	}

	u := &Uniforms{frame: frame, objects: objects}
	for _, b := range []*Buffer{frame, objects} {
		if _, err := b.Mem().Map(); err != nil {
			u.Release()
			return nil, err
		}
	}
	return u, nil
}

// Uniforms holds the global uniform buffers of descriptor set 0.
type Uniforms struct {
	frame   *Buffer
	objects *Buffer
}

// Write uploads the frame block and one model matrix per object.
// Only called while no submitted frame can read the buffers.
func (u *Uniforms) Write(frame FrameUniforms, models []glm.Mat4) error {
	if len(models) > MaxObjects {
		return fmt.Errorf("%d objects exceed the limit of %d", len(models), MaxObjects)
	}

	block := make([]byte, frameBlockSize)
	for i, m := range []glm.Mat4{frame.Projection, frame.View, frame.LightProjection, frame.LightView} {
		putMat4(block[i*mat4Size:], m)
	}
	if err := u.frame.Write(0, block); err != nil {
		return err
	}

	if len(models) == 0 {
		return nil
	}
	block = make([]byte, len(models)*mat4Size)
	for i, m := range models {
		putMat4(block[i*mat4Size:], m)
	}
	return u.objects.Write(0, block)
}

// writes returns the descriptor writes binding both buffers.
func (u *Uniforms) writes() []gfx.DescriptorWrite {
	return []gfx.DescriptorWrite{
		{Binding: 0, Type: gfx.DescriptorUniformBuffer, Buffer: u.frame.Get(), Range: frameBlockSize},
		{Binding: 1, Type: gfx.DescriptorUniformBuffer, Buffer: u.objects.Get(), Range: objectBlockSize},
	}
}

// Release destroys both buffers.
func (u *Uniforms) Release() {
	u.frame.Release()
	u.objects.Release()
}

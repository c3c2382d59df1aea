// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	"github.com/devblok/umbra/world"
)

// TextureFormat is the format textures are uploaded in.
const TextureFormat = gfx.FormatR8G8B8A8Srgb

// Mesh is a model uploaded to device local vertex and index buffers.
type Mesh struct {
	Name     string
	vertices *Buffer
	indices  *Buffer
	count    uint32
}

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() uint32 {
	return m.count
}

// Release destroys both buffers.
func (m *Mesh) Release() {
	if m.vertices != nil {
		m.vertices.Release()
	}
	if m.indices != nil {
		m.indices.Release()
	}
}

// Texture is an image in shader read layout with its own descriptor set.
type Texture struct {
	Name  string
	image *Image
	view  *ImageView
	set   gfx.Handle
}

// Release destroys the view and the image. The set is freed with the
// pool it came from.
func (t *Texture) Release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.image != nil {
		t.image.Release()
	}
	t.set = nil
}

// Scene holds the GPU copies of a loaded world: one mesh per model, one
// texture per texture file and the objects placing them.
type Scene struct {
	ctx     *Context
	pool    gfx.Handle
	sampler *Sampler

	meshes   []*Mesh
	textures []*Texture
	objects  []world.Object
}

// NewScene uploads a world bundle. Texture sets are allocated from a pool
// owned by the scene so reloading a world never exhausts a shared pool.
func NewScene(ctx *Context, commands *CommandPool, textureLayout gfx.Handle, b *world.Bundle, maxTextures uint32) (*Scene, error) {
	switch {
	case uint32(len(b.Textures)) > maxTextures:
		return nil, fmt.Errorf("world %s has %d textures, at most %d are allowed", b.World.Name, len(b.Textures), maxTextures)
	case len(b.World.Objects) > MaxObjects:
		return nil, fmt.Errorf("world %s has %d objects, at most %d are allowed", b.World.Name, len(b.World.Objects), MaxObjects)
	case len(b.Models) > MaxModels:
		return nil, fmt.Errorf("world %s has %d models, at most %d are allowed", b.World.Name, len(b.Models), MaxModels)
	}

	s := &Scene{ctx: ctx, objects: b.World.Objects}
	log := ctx.logger("scene").WithField("world", b.World.Name)

	var err error
	if s.sampler, err = ctx.Factory.NewSampler(gfx.FilterLinear, gfx.AddressRepeat); err != nil {
		return nil, err
	}
	if len(b.Textures) > 0 {
		if s.pool, err = ctx.Device.CreateDescriptorPool(gfx.DescriptorPoolInfo{
			MaxSets:       uint32(len(b.Textures)),
			ImageSamplers: uint32(len(b.Textures)),
		}); err != nil {
			s.Release()
			return nil, err
		}
	}

	for _, m := range b.Models {
		mesh, err := s.uploadMesh(commands, m)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("upload model %s: %w", m.Name, err)
		}
		s.meshes = append(s.meshes, mesh)
	}
	for _, t := range b.Textures {
		tex, err := s.uploadTexture(commands, textureLayout, t)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("upload texture %s: %w", t.Name, err)
		}
		s.textures = append(s.textures, tex)
	}

	for i, o := range s.objects {
		if int(o.Model) >= len(s.meshes) || int(o.Texture) >= len(s.textures) {
			s.Release()
			return nil, fmt.Errorf("object %d refers to model %d and texture %d of %d and %d",
				i, o.Model, o.Texture, len(s.meshes), len(s.textures))
		}
	}

	log.WithField("models", len(s.meshes)).
		WithField("textures", len(s.textures)).
		WithField("objects", len(s.objects)).
		Info("scene uploaded")
	return s, nil
}

// staged creates a host visible transfer source holding data.
func (s *Scene) staged(data []byte) (*Buffer, error) {
	staging, err := s.ctx.Factory.NewBuffer(uint64(len(data)), gfx.BufferUsageTransferSrc, true)
	if err != nil {
		return nil, err
	}
	if err := staging.Write(0, data); err != nil {
		staging.Release()
		return nil, err
	}
	return staging, nil
}

// deviceBuffer copies data into a new device local buffer.
func (s *Scene) deviceBuffer(commands *CommandPool, data []byte, usage gfx.BufferUsageFlags) (*Buffer, error) {
	staging, err := s.staged(data)
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	buffer, err := s.ctx.Factory.NewBuffer(uint64(len(data)), usage|gfx.BufferUsageTransferDst, false)
	if err != nil {
		return nil, err
	}
	if err := commands.SingleTime(func(cmd gfx.Handle) error {
		s.ctx.Device.CmdCopyBuffer(cmd, staging.Get(), buffer.Get(), uint64(len(data)))
		return nil
	}); err != nil {
		buffer.Release()
		return nil, err
	}
	return buffer, nil
}

func (s *Scene) uploadMesh(commands *CommandPool, m *world.Model) (*Mesh, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("empty model")
	}
	mesh := &Mesh{Name: m.Name, count: uint32(len(m.Indices))}

	var err error
	if mesh.vertices, err = s.deviceBuffer(commands, m.VertexData(), gfx.BufferUsageVertexBuffer); err != nil {
		return nil, err
	}
	if mesh.indices, err = s.deviceBuffer(commands, m.IndexData(), gfx.BufferUsageIndexBuffer); err != nil {
		mesh.Release()
		return nil, err
	}
	return mesh, nil
}

func (s *Scene) uploadTexture(commands *CommandPool, layout gfx.Handle, t *world.Texture) (*Texture, error) {
	extent := gfx.Extent2D{Width: t.Width, Height: t.Height}
	if extent.IsZero() || uint64(len(t.Pixels)) != uint64(t.Width)*uint64(t.Height)*4 {
		return nil, fmt.Errorf("%d pixel bytes for a %dx%d texture", len(t.Pixels), t.Width, t.Height)
	}

	staging, err := s.staged(t.Pixels)
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	tex := &Texture{Name: t.Name}
	if tex.image, err = s.ctx.Factory.NewImage(TextureFormat, extent,
		gfx.ImageUsageTransferDst|gfx.ImageUsageSampled, gfx.ImageAspectColor); err != nil {
		return nil, err
	}
	if err := commands.SingleTime(func(cmd gfx.Handle) error {
		if err := tex.image.Transition(cmd, gfx.ImageLayoutUndefined, gfx.ImageLayoutTransferDstOptimal); err != nil {
			return err
		}
		s.ctx.Device.CmdCopyBufferToImage(cmd, staging.Get(), tex.image.Get(), extent)
		return tex.image.Transition(cmd, gfx.ImageLayoutTransferDstOptimal, gfx.ImageLayoutShaderReadOnlyOptimal)
	}); err != nil {
		tex.Release()
		return nil, err
	}

	if tex.view, err = s.ctx.Factory.NewImageView(tex.image.Get(), TextureFormat, gfx.ImageAspectColor); err != nil {
		tex.Release()
		return nil, err
	}
	if tex.set, err = s.ctx.Device.AllocateDescriptorSet(s.pool, layout); err != nil {
		tex.Release()
		return nil, err
	}
	s.ctx.Device.UpdateDescriptorSet(tex.set, gfx.DescriptorWrite{
		Binding: 0,
		Type:    gfx.DescriptorCombinedImageSampler,
		View:    tex.view.Get(),
		Sampler: s.sampler.Get(),
		Layout:  gfx.ImageLayoutShaderReadOnlyOptimal,
	})
	return tex, nil
}

// Mesh returns the mesh of model i.
func (s *Scene) Mesh(i int) *Mesh {
	return s.meshes[i]
}

// Texture returns texture i.
func (s *Scene) Texture(i int) *Texture {
	return s.textures[i]
}

// Objects returns the draw list of the world, in world order.
func (s *Scene) Objects() []DrawObject {
	objects := make([]DrawObject, len(s.objects))
	for i, o := range s.objects {
		objects[i] = DrawObject{
			Mesh:      s.meshes[o.Model],
			Texture:   s.textures[o.Texture],
			Transform: o.Transform(),
		}
	}
	return objects
}

// Release destroys everything the scene uploaded. The device must not
// be using any of it.
func (s *Scene) Release() {
	for _, m := range s.meshes {
		m.Release()
	}
	s.meshes = nil
	for _, t := range s.textures {
		t.Release()
	}
	s.textures = nil
	if s.pool != nil {
		s.ctx.Device.DestroyDescriptorPool(s.pool)
		s.pool = nil
	}
	if s.sampler != nil {
		s.sampler.Release()
	}
}

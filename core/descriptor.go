// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/umbra/gfx"
)

// Descriptor set indices shared by both pipelines.
const (
	GlobalSet  = 0
	TextureSet = 1
	ShadowSet  = 2
)

// NewDescriptors creates the three set layouts and allocates the global
// and shadow sets. Texture sets are owned by the scene.
func NewDescriptors(ctx *Context) (*Descriptors, error) {
	d := &Descriptors{device: ctx.Device}
	dev := ctx.Device

	var err error
	if d.globalLayout, err = dev.CreateDescriptorSetLayout([]gfx.DescriptorBinding{
		{Binding: 0, Type: gfx.DescriptorUniformBuffer, Count: 1, Stages: gfx.ShaderStageVertex | gfx.ShaderStageFragment},
		{Binding: 1, Type: gfx.DescriptorUniformBuffer, Count: 1, Stages: gfx.ShaderStageVertex},
	}); err != nil {
		d.Release()
		return nil, err
	}
	sampler := []gfx.DescriptorBinding{
		{Binding: 0, Type: gfx.DescriptorCombinedImageSampler, Count: 1, Stages: gfx.ShaderStageFragment},
	}
	if d.textureLayout, err = dev.CreateDescriptorSetLayout(sampler); err != nil {
		d.Release()
		return nil, err
	}
	if d.shadowLayout, err = dev.CreateDescriptorSetLayout(sampler); err != nil {
		d.Release()
		return nil, err
	}

	if d.pool, err = dev.CreateDescriptorPool(gfx.DescriptorPoolInfo{
		MaxSets:        2,
		UniformBuffers: 2,
		ImageSamplers:  1,
	}); err != nil {
		d.Release()
		return nil, err
	}
	if d.global, err = dev.AllocateDescriptorSet(d.pool, d.globalLayout); err != nil {
		d.Release()
		return nil, err
	}
	if d.shadow, err = dev.AllocateDescriptorSet(d.pool, d.shadowLayout); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

// Descriptors owns the set layouts and the sets that live as long as the engine.
type Descriptors struct {
	device gfx.Device

	globalLayout  gfx.Handle
	textureLayout gfx.Handle
	shadowLayout  gfx.Handle

	pool   gfx.Handle
	global gfx.Handle
	shadow gfx.Handle
}

// Layouts returns the set layouts in set index order.
func (d *Descriptors) Layouts() []gfx.Handle {
	return []gfx.Handle{d.globalLayout, d.textureLayout, d.shadowLayout}
}

// TextureLayout returns the layout of per texture sets.
func (d *Descriptors) TextureLayout() gfx.Handle {
	return d.textureLayout
}

// Global returns set 0.
func (d *Descriptors) Global() gfx.Handle {
	return d.global
}

// Shadow returns the shadow map set.
func (d *Descriptors) Shadow() gfx.Handle {
	return d.shadow
}

// BindUniforms points set 0 at the uniform buffers.
func (d *Descriptors) BindUniforms(u *Uniforms) {
	d.device.UpdateDescriptorSet(d.global, u.writes()...)
}

// BindShadowMap points the shadow set at the shadow map.
func (d *Descriptors) BindShadowMap(view *ImageView, sampler *Sampler) {
	d.device.UpdateDescriptorSet(d.shadow, gfx.DescriptorWrite{
		Binding: 0,
		Type:    gfx.DescriptorCombinedImageSampler,
		View:    view.Get(),
		Sampler: sampler.Get(),
		Layout:  gfx.ImageLayoutShaderReadOnlyOptimal,
	})
}

// Release destroys the pool, freeing its sets, and the layouts.
func (d *Descriptors) Release() {
	if d.pool != nil {
		d.device.DestroyDescriptorPool(d.pool)
		d.pool = nil
	}
	for _, l := range []*gfx.Handle{&d.globalLayout, &d.textureLayout, &d.shadowLayout} {
		if *l != nil {
			d.device.DestroyDescriptorSetLayout(*l)
			*l = nil
		}
	}
	d.global, d.shadow = nil, nil
}

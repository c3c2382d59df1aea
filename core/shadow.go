// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
)

// NewShadowMap creates the square depth image the shadow pass renders
// into, its view, the sampler the main pass reads it with and the
// framebuffer of the shadow pass.
func NewShadowMap(ctx *Context, size uint32, shadowPass gfx.Handle) (*ShadowMap, error) {
	s := &ShadowMap{
		device: ctx.Device,
		pass:   shadowPass,
		extent: gfx.Extent2D{Width: size, Height: size},
	}

	var err error
	if s.image, err = ctx.Factory.NewImage(DepthFormat, s.extent,
		gfx.ImageUsageDepthStencilAttachment|gfx.ImageUsageSampled, gfx.ImageAspectDepth); err != nil {
		return nil, err
	}
	if s.view, err = ctx.Factory.NewImageView(s.image.Get(), DepthFormat, gfx.ImageAspectDepth); err != nil {
		s.Release()
		return nil, err
	}
	if s.sampler, err = ctx.Factory.NewSampler(gfx.FilterLinear, gfx.AddressClampToEdge); err != nil {
		s.Release()
		return nil, err
	}
	if s.framebuffer, err = ctx.Device.CreateFramebuffer(gfx.FramebufferInfo{
		RenderPass:  shadowPass,
		Attachments: []gfx.Handle{s.view.Get()},
		Extent:      s.extent,
	}); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// ShadowMap is the fixed size depth target of the shadow pass.
type ShadowMap struct {
	device gfx.Device
	pass   gfx.Handle
	extent gfx.Extent2D

	image       *Image
	view        *ImageView
	sampler     *Sampler
	framebuffer gfx.Handle
}

// Image returns the depth image.
func (s *ShadowMap) Image() *Image {
	return s.image
}

// View returns the depth view.
func (s *ShadowMap) View() *ImageView {
	return s.view
}

// Sampler returns the sampler the main pass reads the map with.
func (s *ShadowMap) Sampler() *Sampler {
	return s.sampler
}

// Extent returns the shadow map resolution.
func (s *ShadowMap) Extent() gfx.Extent2D {
	return s.extent
}

// BeginPass begins the shadow pass on cmd. The image must be where a
// previous frame left it: never rendered, or read by the main pass.
func (s *ShadowMap) BeginPass(cmd gfx.Handle) error {
	switch l := s.image.Layout(); l {
	case gfx.ImageLayoutUndefined, gfx.ImageLayoutShaderReadOnlyOptimal:
	default:
		return fmt.Errorf("shadow pass on an image in %v: %w", l, gfx.ErrLayoutMismatch)
	}
	s.device.CmdBeginRenderPass(cmd, gfx.RenderPassBegin{
		RenderPass:  s.pass,
		Framebuffer: s.framebuffer,
		Extent:      s.extent,
		DepthOnly:   true,
		ClearDepth:  1,
	})
	return nil
}

// EndPass ends the shadow pass, leaving the image in the final layout
// of the pass.
func (s *ShadowMap) EndPass(cmd gfx.Handle) {
	s.device.CmdEndRenderPass(cmd)
	s.image.endRenderPass(shadowFinalLayout)
}

// Release destroys the framebuffer, sampler, view and image.
func (s *ShadowMap) Release() {
	if s.framebuffer != nil {
		s.device.DestroyFramebuffer(s.framebuffer)
		s.framebuffer = nil
	}
	if s.sampler != nil {
		s.sampler.Release()
	}
	if s.view != nil {
		s.view.Release()
	}
	if s.image != nil {
		s.image.Release()
	}
}

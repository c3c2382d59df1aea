// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	log "github.com/sirupsen/logrus"
)

// DepthFormat is the format of the swapchain depth buffer and the shadow map.
const DepthFormat = gfx.FormatD32Sfloat

// ChooseSurfaceFormat prefers an 8 bit sRGB format in the non-linear
// sRGB colour space and falls back to the first reported format.
func ChooseSurfaceFormat(formats []gfx.SurfaceFormat) (gfx.SurfaceFormat, error) {
	if len(formats) == 0 {
		return gfx.SurfaceFormat{}, gfx.ErrNoSurfaceFormat
	}
	for _, f := range formats {
		if f.Format.IsSrgb8() && f.ColorSpace == gfx.ColorSpaceSrgbNonlinear {
			return f, nil
		}
	}
	return formats[0], nil
}

// ClampExtent fits desired into the surface limits. Neither dimension
// of the result is zero.
func ClampExtent(caps gfx.SurfaceCapabilities, desired gfx.Extent2D) gfx.Extent2D {
	return gfx.Extent2D{
		Width:  clamp(desired.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(desired.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, min, max uint32) uint32 {
	if max != 0 && v > max {
		v = max
	}
	if v < min {
		v = min
	}
	if v == 0 {
		v = 1
	}
	return v
}

// NewSwapchain creates a swapchain of imageCount images with views and a
// shared depth buffer, sized to desired within the surface limits.
// Framebuffers are created once a render pass is attached with Bind.
func NewSwapchain(ctx *Context, format gfx.SurfaceFormat, desired gfx.Extent2D, imageCount uint32) (*Swapchain, error) {
	s := &Swapchain{
		ctx:        ctx,
		log:        ctx.logger("swapchain"),
		format:     format,
		imageCount: imageCount,
		desired:    desired,
	}

	caps, err := ctx.Device.SurfaceCapabilities()
	if err != nil {
		return nil, err
	}
	if err := s.create(ClampExtent(caps, desired)); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Swapchain owns the presentable images and everything sized after them.
type Swapchain struct {
	ctx *Context
	log *log.Entry

	format     gfx.SurfaceFormat
	imageCount uint32
	renderPass gfx.Handle

	desired gfx.Extent2D
	extent  gfx.Extent2D
	stale   bool

	swapchain    gfx.Handle
	images       []gfx.Handle
	views        []*ImageView
	depth        *Image
	depthView    *ImageView
	framebuffers []gfx.Handle
}

// Handle returns the swapchain handle.
func (s *Swapchain) Handle() gfx.Handle {
	return s.swapchain
}

// Extent returns the size of the current images.
func (s *Swapchain) Extent() gfx.Extent2D {
	return s.extent
}

// Format returns the surface format of the images.
func (s *Swapchain) Format() gfx.SurfaceFormat {
	return s.format
}

// ImageCount returns the number of presentable images.
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Framebuffer returns the framebuffer of image idx.
func (s *Swapchain) Framebuffer(idx uint32) gfx.Handle {
	return s.framebuffers[idx]
}

// Bind creates one framebuffer per image for renderPass. The render pass
// is kept and reused on every recreation.
func (s *Swapchain) Bind(renderPass gfx.Handle) error {
	s.renderPass = renderPass
	return s.createFramebuffers()
}

// Resize records the size the surface now needs. It takes effect on the
// next Recreate.
func (s *Swapchain) Resize(extent gfx.Extent2D) {
	s.desired = extent
}

// invalidate forces the next Recreate to rebuild even at the same size.
func (s *Swapchain) invalidate() {
	s.stale = true
}

// Recreate rebuilds the swapchain and its size dependent resources when
// the clamped extent changed or the swapchain was reported stale. It
// reports whether anything was rebuilt.
func (s *Swapchain) Recreate() (bool, error) {
	caps, err := s.ctx.Device.SurfaceCapabilities()
	if err != nil {
		return false, err
	}
	extent := ClampExtent(caps, s.desired)
	if extent == s.extent && !s.stale && s.swapchain != nil {
		s.log.WithField("extent", extent).Debug("swapchain unchanged")
		return false, nil
	}

	if err := s.ctx.Device.WaitIdle(); err != nil {
		return false, err
	}
	s.destroy()

	if err := s.create(extent); err != nil {
		return false, err
	}
	if s.renderPass != nil {
		if err := s.createFramebuffers(); err != nil {
			return false, err
		}
	}
	s.stale = false
	return true, nil
}

func (s *Swapchain) create(extent gfx.Extent2D) error {
	dev := s.ctx.Device

	swapchain, err := dev.CreateSwapchain(gfx.SwapchainInfo{
		Format:     s.format,
		Extent:     extent,
		ImageCount: s.imageCount,
	})
	if err != nil {
		return err
	}
	s.swapchain = swapchain
	s.extent = extent

	images, err := dev.SwapchainImages(swapchain)
	if err != nil {
		return err
	}
	switch {
	case len(images) == 0:
		return gfx.ErrNoSwapchainImages
	case uint32(len(images)) != s.imageCount:
		return fmt.Errorf("got %d images, want %d: %w", len(images), s.imageCount, gfx.ErrImageCount)
	}
	s.images = images

	for _, img := range images {
		view, err := s.ctx.Factory.NewImageView(img, s.format.Format, gfx.ImageAspectColor)
		if err != nil {
			return err
		}
		s.views = append(s.views, view)
	}

	depth, err := s.ctx.Factory.NewImage(DepthFormat, extent, gfx.ImageUsageDepthStencilAttachment, gfx.ImageAspectDepth)
	if err != nil {
		return err
	}
	s.depth = depth

	depthView, err := s.ctx.Factory.NewImageView(depth.Get(), DepthFormat, gfx.ImageAspectDepth)
	if err != nil {
		return err
	}
	s.depthView = depthView

	s.log.WithFields(log.Fields{
		"extent": fmt.Sprintf("%dx%d", extent.Width, extent.Height),
		"format": s.format.Format,
		"images": len(images),
	}).Info("swapchain created")
	return nil
}

func (s *Swapchain) createFramebuffers() error {
	for _, view := range s.views {
		fb, err := s.ctx.Device.CreateFramebuffer(gfx.FramebufferInfo{
			RenderPass:  s.renderPass,
			Attachments: []gfx.Handle{view.Get(), s.depthView.Get()},
			Extent:      s.extent,
		})
		if err != nil {
			return err
		}
		s.framebuffers = append(s.framebuffers, fb)
	}
	return nil
}

// destroy releases framebuffers, image views, the depth buffer and the
// swapchain in that order. Missing parts are skipped.
func (s *Swapchain) destroy() {
	dev := s.ctx.Device
	for _, fb := range s.framebuffers {
		dev.DestroyFramebuffer(fb)
	}
	s.framebuffers = nil

	for _, v := range s.views {
		v.Release()
	}
	s.views = nil

	if s.depthView != nil {
		s.depthView.Release()
		s.depthView = nil
	}
	if s.depth != nil {
		s.depth.Release()
		s.depth = nil
	}

	if s.swapchain != nil {
		dev.DestroySwapchain(s.swapchain)
		s.swapchain = nil
	}
	s.images = nil
}

// Destroy releases the swapchain. The device must be idle.
func (s *Swapchain) Destroy() {
	s.destroy()
	s.extent = gfx.Extent2D{}
}

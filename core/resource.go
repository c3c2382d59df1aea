// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
)

// NewResourceFactory creates a factory for memory backed resources of device.
func NewResourceFactory(device gfx.Device) *ResourceFactory {
	return &ResourceFactory{
		device:    device,
		allocator: NewMemoryAllocator(device),
	}
}

// ResourceFactory creates buffers, images, views and samplers,
// binding each to memory of the right type.
type ResourceFactory struct {
	device    gfx.Device
	allocator *MemoryAllocator
}

// NewBuffer creates, configures, allocates and binds a new buffer.
// Host visible buffers get coherent memory and can be written directly.
func (rf *ResourceFactory) NewBuffer(size uint64, usage gfx.BufferUsageFlags, hostVisible bool) (*Buffer, error) {
	buffer, req, err := rf.device.CreateBuffer(gfx.BufferInfo{Size: size, Usage: usage})
	if err != nil {
		return nil, err
	}

	prop := gfx.MemoryDeviceLocal
	if hostVisible {
		prop = gfx.MemoryHostVisible | gfx.MemoryHostCoherent
	}
	memory, err := rf.allocator.Malloc(req, prop)
	if err != nil {
		rf.device.DestroyBuffer(buffer)
		return nil, err
	}

	if err := rf.device.BindBufferMemory(buffer, memory.Get()); err != nil {
		rf.device.DestroyBuffer(buffer)
		memory.Release()
		return nil, err
	}

	return &Buffer{
		device:      rf.device,
		buffer:      buffer,
		memory:      memory,
		size:        size,
		hostVisible: hostVisible,
	}, nil
}

// Buffer implements a generic buffer.
type Buffer struct {
	device      gfx.Device
	buffer      gfx.Handle
	memory      *Memory
	size        uint64
	hostVisible bool
}

// Mem returns the Memory that the buffer is based on.
func (b *Buffer) Mem() *Memory {
	return b.memory
}

// Get returns the buffer handle.
func (b *Buffer) Get() gfx.Handle {
	return b.buffer
}

// Size returns the requested size of the buffer.
func (b *Buffer) Size() uint64 {
	return b.size
}

// Write copies data into the buffer at offset. The buffer stays mapped
// afterwards so per frame writes do not remap.
func (b *Buffer) Write(offset uint64, data []byte) error {
	if !b.hostVisible {
		return fmt.Errorf("write to a device local buffer")
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("write of %d bytes at %d overflows buffer of %d", len(data), offset, b.size)
	}
	mapped, err := b.memory.Map()
	if err != nil {
		return err
	}
	copy(mapped[offset:], data)
	return nil
}

// Release destroys the buffer and memory asociated with it.
func (b *Buffer) Release() {
	if b.buffer == nil {
		return
	}
	b.device.DestroyBuffer(b.buffer)
	b.memory.Release()
	b.buffer = nil
}

// NewImage creates a device local 2D image bound to fresh memory.
// The image starts in gfx.ImageLayoutUndefined.
func (rf *ResourceFactory) NewImage(format gfx.Format, extent gfx.Extent2D, usage gfx.ImageUsageFlags, aspect gfx.ImageAspectFlags) (*Image, error) {
	image, req, err := rf.device.CreateImage(gfx.ImageInfo{Format: format, Extent: extent, Usage: usage})
	if err != nil {
		return nil, err
	}

	memory, err := rf.allocator.Malloc(req, gfx.MemoryDeviceLocal)
	if err != nil {
		rf.device.DestroyImage(image)
		return nil, err
	}

	if err := rf.device.BindImageMemory(image, memory.Get()); err != nil {
		rf.device.DestroyImage(image)
		memory.Release()
		return nil, err
	}

	return &Image{
		device: rf.device,
		image:  image,
		memory: memory,
		format: format,
		extent: extent,
		aspect: aspect,
		layout: gfx.ImageLayoutUndefined,
	}, nil
}

// Image is a device local image that knows its current layout.
type Image struct {
	device gfx.Device
	image  gfx.Handle
	memory *Memory

	format gfx.Format
	extent gfx.Extent2D
	aspect gfx.ImageAspectFlags
	layout gfx.ImageLayout
}

// Get returns the image handle.
func (i *Image) Get() gfx.Handle {
	return i.image
}

// Mem returns the underlying memory of the Image.
func (i *Image) Mem() *Memory {
	return i.memory
}

// Format returns the image format.
func (i *Image) Format() gfx.Format {
	return i.format
}

// Extent returns the image size.
func (i *Image) Extent() gfx.Extent2D {
	return i.extent
}

// Layout returns the layout the image is in at the end of the
// commands recorded so far.
func (i *Image) Layout() gfx.ImageLayout {
	return i.layout
}

type transition struct {
	srcAccess, dstAccess gfx.AccessFlags
	srcStage, dstStage   gfx.PipelineStageFlags
}

var transitions = map[[2]gfx.ImageLayout]transition{
	{gfx.ImageLayoutUndefined, gfx.ImageLayoutTransferDstOptimal}: {
		dstAccess: gfx.AccessTransferWrite,
		srcStage:  gfx.StageTopOfPipe,
		dstStage:  gfx.StageTransfer,
	},
	{gfx.ImageLayoutTransferDstOptimal, gfx.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: gfx.AccessTransferWrite,
		dstAccess: gfx.AccessShaderRead,
		srcStage:  gfx.StageTransfer,
		dstStage:  gfx.StageFragmentShader,
	},
	{gfx.ImageLayoutDepthStencilAttachmentOptimal, gfx.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: gfx.AccessDepthStencilAttachmentWrite,
		dstAccess: gfx.AccessShaderRead,
		srcStage:  gfx.StageLateFragmentTests,
		dstStage:  gfx.StageFragmentShader,
	},
	{gfx.ImageLayoutUndefined, gfx.ImageLayoutDepthStencilAttachmentOptimal}: {
		dstAccess: gfx.AccessDepthStencilAttachmentRead | gfx.AccessDepthStencilAttachmentWrite,
		srcStage:  gfx.StageTopOfPipe,
		dstStage:  gfx.StageEarlyFragmentTests,
	},
}

// Transition records a layout transition barrier into cmd. The image
// must currently be in layout from, otherwise gfx.ErrLayoutMismatch is
// returned and nothing is recorded.
func (i *Image) Transition(cmd gfx.Handle, from, to gfx.ImageLayout) error {
	if i.layout != from {
		return fmt.Errorf("transition %s -> %s of image in %s: %w", from, to, i.layout, gfx.ErrLayoutMismatch)
	}
	t, ok := transitions[[2]gfx.ImageLayout{from, to}]
	if !ok {
		return fmt.Errorf("unsupported layout transition %s -> %s", from, to)
	}

	i.device.CmdPipelineBarrier(cmd, gfx.ImageBarrier{
		Image:     i.image,
		Aspect:    i.aspect,
		OldLayout: from,
		NewLayout: to,
		SrcStage:  t.srcStage,
		DstStage:  t.dstStage,
		SrcAccess: t.srcAccess,
		DstAccess: t.dstAccess,
	})
	i.layout = to
	return nil
}

// endRenderPass records the final layout of a render pass that just
// ended with the image as an attachment. Besides Transition this is the
// only layout change an image sees.
func (i *Image) endRenderPass(final gfx.ImageLayout) {
	i.layout = final
}

// Release destroys the image and frees its memory.
func (i *Image) Release() {
	if i.image == nil {
		return
	}
	i.device.DestroyImage(i.image)
	i.memory.Release()
	i.image = nil
}

// NewImageView creates a view over a whole image.
func (rf *ResourceFactory) NewImageView(image gfx.Handle, format gfx.Format, aspect gfx.ImageAspectFlags) (*ImageView, error) {
	view, err := rf.device.CreateImageView(gfx.ImageViewInfo{Image: image, Format: format, Aspect: aspect})
	if err != nil {
		return nil, err
	}
	return &ImageView{device: rf.device, view: view}, nil
}

// ImageView is a view over an image.
type ImageView struct {
	device gfx.Device
	view   gfx.Handle
}

// Get returns the view handle.
func (v *ImageView) Get() gfx.Handle {
	return v.view
}

// Release destroys the view.
func (v *ImageView) Release() {
	if v.view == nil {
		return
	}
	v.device.DestroyImageView(v.view)
	v.view = nil
}

// NewSampler creates a sampler.
func (rf *ResourceFactory) NewSampler(filter gfx.Filter, mode gfx.AddressMode) (*Sampler, error) {
	sampler, err := rf.device.CreateSampler(gfx.SamplerInfo{Filter: filter, AddressMode: mode})
	if err != nil {
		return nil, err
	}
	return &Sampler{device: rf.device, sampler: sampler}, nil
}

// Sampler is a texture sampler.
type Sampler struct {
	device  gfx.Device
	sampler gfx.Handle
}

// Get returns the sampler handle.
func (s *Sampler) Get() gfx.Handle {
	return s.sampler
}

// Release destroys the sampler.
func (s *Sampler) Release() {
	if s.sampler == nil {
		return
	}
	s.device.DestroySampler(s.sampler)
	s.sampler = nil
}

var (
	_ gfx.Releasable = (*Buffer)(nil)
	_ gfx.Releasable = (*Image)(nil)
	_ gfx.Releasable = (*ImageView)(nil)
	_ gfx.Releasable = (*Sampler)(nil)
)

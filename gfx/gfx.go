// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines rendering related features that renderers must implement.
//
// Enumerations and flag values mirror their Vulkan counterparts numerically,
// so a Vulkan backend converts them with a plain cast.
package gfx

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Handle is an opaque backend object. Backends type assert it back
// to their native handle, callers only pass it around and compare it.
type Handle interface{}

// Extent2D is a two dimensional size in pixels.
type Extent2D struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// IsZero reports whether either dimension is zero.
func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// Viewport describes the viewport transform of a draw.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// ViewportFor returns a viewport covering the whole extent with depth 0..1.
func ViewportFor(extent Extent2D) Viewport {
	return Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1,
	}
}

// SurfaceFormat pairs an image format with its colour space.
type SurfaceFormat struct {
	Format     Format     `json:"format"`
	ColorSpace ColorSpace `json:"colorSpace"`
}

// SurfaceCapabilities are the presentation limits reported by a surface.
type SurfaceCapabilities struct {
	MinImageCount  uint32
	MaxImageCount  uint32
	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

// MemoryType is one entry of a device memory type table.
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags `json:"propertyFlags"`
	HeapIndex     uint32              `json:"heapIndex"`
}

// MemoryProperties describes the memory types and heaps of a physical device.
type MemoryProperties struct {
	Types     []MemoryType `json:"types"`
	HeapSizes []uint64     `json:"heapSizes"`
}

// MemoryRequirements are what a buffer or image needs from its backing memory.
type MemoryRequirements struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

// QueueFamily describes a queue family of a physical device. Present
// is only meaningful once a surface exists.
type QueueFamily struct {
	Index    uint32 `json:"index"`
	Count    uint32 `json:"count"`
	Graphics bool   `json:"graphics"`
	Present  bool   `json:"present"`
}

// PhysicalDevice describes a GPU the instance can see.
type PhysicalDevice struct {
	Handle   Handle             `json:"-"`
	Name     string             `json:"name"`
	Type     PhysicalDeviceType `json:"type"`
	VendorID uint32             `json:"vendorId"`
	DeviceID uint32             `json:"deviceId"`
	API      string             `json:"apiVersion"`
	Memory   MemoryProperties   `json:"memory"`
}

// DeviceInfo carries everything needed to create a logical device.
type DeviceInfo struct {
	Physical   PhysicalDevice
	Queues     QueueRoles
	Extensions []string
}

// BufferInfo describes a buffer to create.
type BufferInfo struct {
	Size  uint64
	Usage BufferUsageFlags
}

// ImageInfo describes a two dimensional, single mip, optimally tiled image.
// Images always start in ImageLayoutUndefined.
type ImageInfo struct {
	Format Format
	Extent Extent2D
	Usage  ImageUsageFlags
}

// ImageViewInfo describes a 2D view over a whole image.
type ImageViewInfo struct {
	Image  Handle
	Format Format
	Aspect ImageAspectFlags
}

// SamplerInfo describes a sampler.
type SamplerInfo struct {
	Filter      Filter
	AddressMode AddressMode
}

// SwapchainInfo describes a swapchain to create for the device surface.
type SwapchainInfo struct {
	Format     SurfaceFormat
	Extent     Extent2D
	ImageCount uint32
	Old        Handle
}

// AttachmentInfo describes one render pass attachment. Attachments
// always start from ImageLayoutUndefined and are cleared on load.
type AttachmentInfo struct {
	Format      Format
	Store       bool
	FinalLayout ImageLayout
}

// RenderPassInfo describes a single subpass render pass. A nil Color
// makes a depth only pass.
type RenderPassInfo struct {
	Color *AttachmentInfo
	Depth AttachmentInfo
}

// FramebufferInfo describes a framebuffer for a render pass.
type FramebufferInfo struct {
	RenderPass  Handle
	Attachments []Handle
	Extent      Extent2D
}

// DescriptorBinding is one binding of a descriptor set layout.
type DescriptorBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
	Stages  ShaderStageFlags
}

// DescriptorPoolInfo sizes a descriptor pool.
type DescriptorPoolInfo struct {
	MaxSets        uint32
	UniformBuffers uint32
	ImageSamplers  uint32
}

// DescriptorWrite updates one binding of a descriptor set. Buffer and
// Range are used for uniform buffers, View, Sampler and Layout for samplers.
type DescriptorWrite struct {
	Binding uint32
	Type    DescriptorType
	Buffer  Handle
	Range   uint64
	View    Handle
	Sampler Handle
	Layout  ImageLayout
}

// PipelineLayoutInfo describes the set layouts and push constant range
// of a pipeline layout.
type PipelineLayoutInfo struct {
	SetLayouts         []Handle
	PushConstantSize   uint32
	PushConstantStages ShaderStageFlags
}

// VertexAttribute describes one vertex input attribute of binding 0.
type VertexAttribute struct {
	Location uint32
	Format   Format
	Offset   uint32
}

// PipelineInfo describes a graphics pipeline with dynamic viewport and scissor.
type PipelineInfo struct {
	Vertex       Handle
	Fragment     Handle
	Layout       Handle
	RenderPass   Handle
	VertexStride uint32
	Attributes   []VertexAttribute
	CullMode     CullMode
	// ColorAttachment is false for depth only pipelines.
	ColorAttachment bool
}

// RenderPassBegin starts a render pass instance.
type RenderPassBegin struct {
	RenderPass  Handle
	Framebuffer Handle
	Extent      Extent2D
	DepthOnly   bool
	// ClearColor is ignored for depth only passes.
	ClearColor [4]float32
	ClearDepth float32
}

// ImageBarrier is a pipeline barrier for a single image layout transition.
type ImageBarrier struct {
	Image     Handle
	Aspect    ImageAspectFlags
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcStage  PipelineStageFlags
	DstStage  PipelineStageFlags
	SrcAccess AccessFlags
	DstAccess AccessFlags
}

// SubmitInfo is a single command buffer submission to the graphics queue.
type SubmitInfo struct {
	CommandBuffer Handle
	Wait          Handle
	WaitStage     PipelineStageFlags
	Signal        Handle
	Fence         Handle
}

// PresentInfo presents one swapchain image after Wait is signaled.
type PresentInfo struct {
	Swapchain  Handle
	ImageIndex uint32
	Wait       Handle
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "unsafe"

// Window is a platform window a presentation surface can be created for.
// *sdl.Window satisfies it.
type Window interface {
	VulkanCreateSurface(instance interface{}) (unsafe.Pointer, error)
}

// Instance is an initialised graphics API instance.
type Instance interface {
	// PhysicalDevices lists the GPUs the instance can use.
	PhysicalDevices() ([]PhysicalDevice, error)

	// CreateSurface creates the presentation surface for a window.
	CreateSurface(Window) error

	// QueueFamilies lists the queue families of a device, with present
	// support evaluated against the surface.
	QueueFamilies(PhysicalDevice) ([]QueueFamily, error)

	// CreateDevice creates the logical device and its queues.
	CreateDevice(DeviceInfo) (Device, error)

	// Inner returns the inner handle of the underlying API.
	Inner() interface{}

	// Destroy destroys the surface and the instance.
	Destroy()
}

// ResourceDevice creates and binds memory backed resources.
type ResourceDevice interface {
	MemoryProperties() MemoryProperties

	CreateBuffer(BufferInfo) (Handle, MemoryRequirements, error)
	DestroyBuffer(Handle)
	CreateImage(ImageInfo) (Handle, MemoryRequirements, error)
	DestroyImage(Handle)

	AllocateMemory(size uint64, typeIndex uint32) (Handle, error)
	FreeMemory(Handle)
	BindBufferMemory(buffer, memory Handle) error
	BindImageMemory(image, memory Handle) error
	// MapMemory maps size bytes from the start of memory.
	MapMemory(memory Handle, size uint64) ([]byte, error)
	UnmapMemory(Handle)

	CreateImageView(ImageViewInfo) (Handle, error)
	DestroyImageView(Handle)
	CreateSampler(SamplerInfo) (Handle, error)
	DestroySampler(Handle)
}

// PresentationDevice owns the swapchain of the device surface.
type PresentationDevice interface {
	SurfaceCapabilities() (SurfaceCapabilities, error)
	SurfaceFormats() ([]SurfaceFormat, error)

	CreateSwapchain(SwapchainInfo) (Handle, error)
	SwapchainImages(Handle) ([]Handle, error)
	DestroySwapchain(Handle)

	// AcquireNextImage returns ErrOutOfDate or ErrSuboptimal when the
	// swapchain must be recreated. On ErrSuboptimal the semaphore is
	// still signaled.
	AcquireNextImage(swapchain, semaphore Handle) (uint32, error)

	// Present returns ErrOutOfDate or ErrSuboptimal the same way.
	Present(PresentInfo) error
}

// PipelineDevice creates render passes, pipelines and descriptors.
type PipelineDevice interface {
	CreateRenderPass(RenderPassInfo) (Handle, error)
	DestroyRenderPass(Handle)
	CreateFramebuffer(FramebufferInfo) (Handle, error)
	DestroyFramebuffer(Handle)

	CreateShaderModule(code []uint32) (Handle, error)
	DestroyShaderModule(Handle)

	CreateDescriptorSetLayout([]DescriptorBinding) (Handle, error)
	DestroyDescriptorSetLayout(Handle)
	CreateDescriptorPool(DescriptorPoolInfo) (Handle, error)
	DestroyDescriptorPool(Handle)
	AllocateDescriptorSet(pool, layout Handle) (Handle, error)
	UpdateDescriptorSet(set Handle, writes ...DescriptorWrite)

	CreatePipelineLayout(PipelineLayoutInfo) (Handle, error)
	DestroyPipelineLayout(Handle)
	CreateGraphicsPipeline(PipelineInfo) (Handle, error)
	DestroyPipeline(Handle)
}

// SyncDevice creates synchronisation primitives.
type SyncDevice interface {
	CreateSemaphore() (Handle, error)
	DestroySemaphore(Handle)
	CreateFence(signaled bool) (Handle, error)
	DestroyFence(Handle)
	WaitForFence(fence Handle, timeout uint64) error
	ResetFence(Handle) error
}

// CommandDevice allocates command buffers on the graphics family
// and submits them to the graphics queue.
type CommandDevice interface {
	// CreateCommandPool creates a pool whose buffers can be reset individually.
	CreateCommandPool() (Handle, error)
	DestroyCommandPool(Handle)
	AllocateCommandBuffer(pool Handle) (Handle, error)
	FreeCommandBuffer(pool, cmd Handle)
	ResetCommandBuffer(Handle) error
	BeginCommandBuffer(cmd Handle, oneTime bool) error
	EndCommandBuffer(Handle) error

	Submit(SubmitInfo) error
	QueueWaitIdle() error
}

// Recorder records commands into a command buffer.
type Recorder interface {
	CmdBeginRenderPass(cmd Handle, begin RenderPassBegin)
	CmdEndRenderPass(cmd Handle)
	CmdBindPipeline(cmd, pipeline Handle)
	CmdSetViewport(cmd Handle, viewport Viewport)
	CmdSetScissor(cmd Handle, extent Extent2D)
	CmdBindVertexBuffer(cmd, buffer Handle)
	CmdBindIndexBuffer(cmd, buffer Handle)
	CmdBindDescriptorSets(cmd, layout Handle, firstSet uint32, sets ...Handle)
	CmdPushConstants(cmd, layout Handle, stages ShaderStageFlags, data []byte)
	CmdDrawIndexed(cmd Handle, indexCount uint32)
	CmdPipelineBarrier(cmd Handle, barrier ImageBarrier)
	CmdCopyBuffer(cmd, src, dst Handle, size uint64)
	CmdCopyBufferToImage(cmd, src, dst Handle, extent Extent2D)
}

// Device is a logical device with its graphics and present queues.
type Device interface {
	ResourceDevice
	PresentationDevice
	PipelineDevice
	SyncDevice
	CommandDevice
	Recorder

	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error

	// Destroy destroys the logical device. Every object created
	// from it must be destroyed first.
	Destroy()
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
)

// CreateSemaphore implements gfx.SyncDevice.
func (d *Device) CreateSemaphore() (gfx.Handle, error) {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(d.device, &sci, nil, &semaphore)); err != nil {
		return nil, errors.New("vk.CreateSemaphore(): " + err.Error())
	}
	return semaphore, nil
}

// DestroySemaphore implements gfx.SyncDevice.
func (d *Device) DestroySemaphore(h gfx.Handle) {
	if semaphore, ok := h.(vk.Semaphore); ok {
		vk.DestroySemaphore(d.device, semaphore, nil)
	}
}

// CreateFence implements gfx.SyncDevice.
func (d *Device) CreateFence(signaled bool) (gfx.Handle, error) {
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fci.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(d.device, &fci, nil, &fence)); err != nil {
		return nil, errors.New("vk.CreateFence(): " + err.Error())
	}
	return fence, nil
}

// DestroyFence implements gfx.SyncDevice.
func (d *Device) DestroyFence(h gfx.Handle) {
	if fence, ok := h.(vk.Fence); ok {
		vk.DestroyFence(d.device, fence, nil)
	}
}

// WaitForFence implements gfx.SyncDevice.
func (d *Device) WaitForFence(fence gfx.Handle, timeout uint64) error {
	if err := vk.Error(vk.WaitForFences(d.device, 1, []vk.Fence{fence.(vk.Fence)}, vk.True, uint(timeout))); err != nil {
		return fmt.Errorf("vk.WaitForFences(): %s", err.Error())
	}
	return nil
}

// ResetFence implements gfx.SyncDevice.
func (d *Device) ResetFence(fence gfx.Handle) error {
	if err := vk.Error(vk.ResetFences(d.device, 1, []vk.Fence{fence.(vk.Fence)})); err != nil {
		return fmt.Errorf("vk.ResetFences(): %s", err.Error())
	}
	return nil
}

// CreateCommandPool implements gfx.CommandDevice.
func (d *Device) CreateCommandPool() (gfx.Handle, error) {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queues.Graphics(),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}

	var commandPool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(d.device, &cpci, nil, &commandPool)); err != nil {
		return nil, errors.New("vk.CreateCommandPool(): " + err.Error())
	}
	return commandPool, nil
}

// DestroyCommandPool implements gfx.CommandDevice.
func (d *Device) DestroyCommandPool(h gfx.Handle) {
	if pool, ok := h.(vk.CommandPool); ok {
		vk.DestroyCommandPool(d.device, pool, nil)
	}
}

// AllocateCommandBuffer implements gfx.CommandDevice.
func (d *Device) AllocateCommandBuffer(pool gfx.Handle) (gfx.Handle, error) {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool.(vk.CommandPool),
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.device, &cbai, commandBuffers)); err != nil {
		return nil, errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}
	return commandBuffers[0], nil
}

// FreeCommandBuffer implements gfx.CommandDevice.
func (d *Device) FreeCommandBuffer(pool, cmd gfx.Handle) {
	vk.FreeCommandBuffers(d.device, pool.(vk.CommandPool), 1, []vk.CommandBuffer{cmd.(vk.CommandBuffer)})
}

// ResetCommandBuffer implements gfx.CommandDevice.
func (d *Device) ResetCommandBuffer(cmd gfx.Handle) error {
	if err := vk.Error(vk.ResetCommandBuffer(cmd.(vk.CommandBuffer), 0)); err != nil {
		return fmt.Errorf("vk.ResetCommandBuffer(): %s", err.Error())
	}
	return nil
}

// BeginCommandBuffer implements gfx.CommandDevice.
func (d *Device) BeginCommandBuffer(cmd gfx.Handle, oneTime bool) error {
	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if oneTime {
		cbbi.Flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if err := vk.Error(vk.BeginCommandBuffer(cmd.(vk.CommandBuffer), &cbbi)); err != nil {
		return fmt.Errorf("vk.BeginCommandBuffer(): %s", err.Error())
	}
	return nil
}

// EndCommandBuffer implements gfx.CommandDevice.
func (d *Device) EndCommandBuffer(cmd gfx.Handle) error {
	if err := vk.Error(vk.EndCommandBuffer(cmd.(vk.CommandBuffer))); err != nil {
		return fmt.Errorf("vk.EndCommandBuffer(): %s", err.Error())
	}
	return nil
}

// Submit implements gfx.CommandDevice.
func (d *Device) Submit(info gfx.SubmitInfo) error {
	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{info.CommandBuffer.(vk.CommandBuffer)},
	}
	if wait, ok := info.Wait.(vk.Semaphore); ok {
		submit.WaitSemaphoreCount = 1
		submit.PWaitSemaphores = []vk.Semaphore{wait}
		submit.PWaitDstStageMask = []vk.PipelineStageFlags{vk.PipelineStageFlags(info.WaitStage)}
	}
	if signal, ok := info.Signal.(vk.Semaphore); ok {
		submit.SignalSemaphoreCount = 1
		submit.PSignalSemaphores = []vk.Semaphore{signal}
	}
	fence, _ := info.Fence.(vk.Fence)

	if err := vk.Error(vk.QueueSubmit(d.graphicsQueue, 1, []vk.SubmitInfo{submit}, fence)); err != nil {
		return fmt.Errorf("vk.QueueSubmit(): %s", err.Error())
	}
	return nil
}

// QueueWaitIdle implements gfx.CommandDevice.
func (d *Device) QueueWaitIdle() error {
	if err := vk.Error(vk.QueueWaitIdle(d.graphicsQueue)); err != nil {
		return fmt.Errorf("vk.QueueWaitIdle(): %s", err.Error())
	}
	return nil
}

// CmdBeginRenderPass implements gfx.Recorder.
func (d *Device) CmdBeginRenderPass(cmd gfx.Handle, begin gfx.RenderPassBegin) {
	var clearValues []vk.ClearValue
	if begin.DepthOnly {
		clearValues = make([]vk.ClearValue, 1)
		clearValues[0].SetDepthStencil(begin.ClearDepth, 0)
	} else {
		clearValues = make([]vk.ClearValue, 2)
		clearValues[0].SetColor(begin.ClearColor[:])
		clearValues[1].SetDepthStencil(begin.ClearDepth, 0)
	}

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  begin.RenderPass.(vk.RenderPass),
		Framebuffer: begin.Framebuffer.(vk.Framebuffer),
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent(begin.Extent),
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cmd.(vk.CommandBuffer), &rpbi, vk.SubpassContentsInline)
}

// CmdEndRenderPass implements gfx.Recorder.
func (d *Device) CmdEndRenderPass(cmd gfx.Handle) {
	vk.CmdEndRenderPass(cmd.(vk.CommandBuffer))
}

// CmdBindPipeline implements gfx.Recorder.
func (d *Device) CmdBindPipeline(cmd, pipeline gfx.Handle) {
	vk.CmdBindPipeline(cmd.(vk.CommandBuffer), vk.PipelineBindPointGraphics, pipeline.(vk.Pipeline))
}

// CmdSetViewport implements gfx.Recorder.
func (d *Device) CmdSetViewport(cmd gfx.Handle, viewport gfx.Viewport) {
	vk.CmdSetViewport(cmd.(vk.CommandBuffer), 0, 1, []vk.Viewport{{
		X:        viewport.X,
		Y:        viewport.Y,
		Width:    viewport.Width,
		Height:   viewport.Height,
		MinDepth: viewport.MinDepth,
		MaxDepth: viewport.MaxDepth,
	}})
}

// CmdSetScissor implements gfx.Recorder.
func (d *Device) CmdSetScissor(cmd gfx.Handle, e gfx.Extent2D) {
	vk.CmdSetScissor(cmd.(vk.CommandBuffer), 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent(e),
	}})
}

// CmdBindVertexBuffer implements gfx.Recorder.
func (d *Device) CmdBindVertexBuffer(cmd, buffer gfx.Handle) {
	vk.CmdBindVertexBuffers(cmd.(vk.CommandBuffer), 0, 1, []vk.Buffer{buffer.(vk.Buffer)}, []vk.DeviceSize{0})
}

// CmdBindIndexBuffer implements gfx.Recorder.
func (d *Device) CmdBindIndexBuffer(cmd, buffer gfx.Handle) {
	vk.CmdBindIndexBuffer(cmd.(vk.CommandBuffer), buffer.(vk.Buffer), 0, vk.IndexTypeUint32)
}

// CmdBindDescriptorSets implements gfx.Recorder.
func (d *Device) CmdBindDescriptorSets(cmd, layout gfx.Handle, firstSet uint32, sets ...gfx.Handle) {
	descriptorSets := make([]vk.DescriptorSet, len(sets))
	for i, s := range sets {
		descriptorSets[i] = s.(vk.DescriptorSet)
	}
	vk.CmdBindDescriptorSets(cmd.(vk.CommandBuffer), vk.PipelineBindPointGraphics, layout.(vk.PipelineLayout),
		firstSet, uint32(len(descriptorSets)), descriptorSets, 0, nil)
}

// CmdPushConstants implements gfx.Recorder.
func (d *Device) CmdPushConstants(cmd, layout gfx.Handle, stages gfx.ShaderStageFlags, data []byte) {
	if len(data) == 0 {
		return
	}
	vk.CmdPushConstants(cmd.(vk.CommandBuffer), layout.(vk.PipelineLayout), vk.ShaderStageFlags(stages),
		0, uint32(len(data)), unsafe.Pointer(&data[0]))
}

// CmdDrawIndexed implements gfx.Recorder.
func (d *Device) CmdDrawIndexed(cmd gfx.Handle, indexCount uint32) {
	vk.CmdDrawIndexed(cmd.(vk.CommandBuffer), indexCount, 1, 0, 0, 0)
}

// CmdPipelineBarrier implements gfx.Recorder.
func (d *Device) CmdPipelineBarrier(cmd gfx.Handle, b gfx.ImageBarrier) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           vk.ImageLayout(b.OldLayout),
		NewLayout:           vk.ImageLayout(b.NewLayout),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               b.Image.(vk.Image),
		SubresourceRange:    imageSubresource(b.Aspect),
		SrcAccessMask:       vk.AccessFlags(b.SrcAccess),
		DstAccessMask:       vk.AccessFlags(b.DstAccess),
	}
	vk.CmdPipelineBarrier(cmd.(vk.CommandBuffer), vk.PipelineStageFlags(b.SrcStage), vk.PipelineStageFlags(b.DstStage),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

// CmdCopyBuffer implements gfx.Recorder.
func (d *Device) CmdCopyBuffer(cmd, src, dst gfx.Handle, size uint64) {
	bc := vk.BufferCopy{
		Size: vk.DeviceSize(size),
	}
	vk.CmdCopyBuffer(cmd.(vk.CommandBuffer), src.(vk.Buffer), dst.(vk.Buffer), 1, []vk.BufferCopy{bc})
}

// CmdCopyBufferToImage implements gfx.Recorder.
func (d *Device) CmdCopyBufferToImage(cmd, src, dst gfx.Handle, e gfx.Extent2D) {
	bic := vk.BufferImageCopy{
		ImageOffset: vk.Offset3D{},
		ImageExtent: vk.Extent3D{
			Width:  e.Width,
			Height: e.Height,
			Depth:  1,
		},
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	vk.CmdCopyBufferToImage(cmd.(vk.CommandBuffer), src.(vk.Buffer), dst.(vk.Image), vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{bic})
}

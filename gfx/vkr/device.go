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

// Device is a Vulkan logical device bound to the instance surface.
type Device struct {
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	surface        vk.Surface

	queues        gfx.QueueRoles
	graphicsQueue vk.Queue
	presentQueue  vk.Queue

	memory gfx.MemoryProperties
}

// Inner returns the vk.Device handle.
func (d *Device) Inner() interface{} {
	return d.device
}

// MemoryProperties implements gfx.ResourceDevice.
func (d *Device) MemoryProperties() gfx.MemoryProperties {
	return d.memory
}

// WaitIdle implements gfx.Device.
func (d *Device) WaitIdle() error {
	if err := vk.Error(vk.DeviceWaitIdle(d.device)); err != nil {
		return fmt.Errorf("vk.DeviceWaitIdle(): %s", err.Error())
	}
	return nil
}

// Destroy implements gfx.Device.
func (d *Device) Destroy() {
	vk.DestroyDevice(d.device, nil)
}

// CreateBuffer implements gfx.ResourceDevice.
func (d *Device) CreateBuffer(info gfx.BufferInfo) (gfx.Handle, gfx.MemoryRequirements, error) {
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(info.Size),
		Usage:       vk.BufferUsageFlags(info.Usage),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.device, &createInfo, nil, &buffer)); err != nil {
		return nil, gfx.MemoryRequirements{}, fmt.Errorf("vk.CreateBuffer(): %s", err.Error())
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, buffer, &req)
	return buffer, requirements(req), nil
}

// DestroyBuffer implements gfx.ResourceDevice.
func (d *Device) DestroyBuffer(h gfx.Handle) {
	if buffer, ok := h.(vk.Buffer); ok {
		vk.DestroyBuffer(d.device, buffer, nil)
	}
}

// CreateImage implements gfx.ResourceDevice.
func (d *Device) CreateImage(info gfx.ImageInfo) (gfx.Handle, gfx.MemoryRequirements, error) {
	createInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        vk.Format(info.Format),
		Tiling:        vk.ImageTilingOptimal,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         vk.ImageUsageFlags(info.Usage),
		SharingMode:   vk.SharingModeExclusive,
		Samples:       vk.SampleCount1Bit,
	}

	var image vk.Image
	if err := vk.Error(vk.CreateImage(d.device, &createInfo, nil, &image)); err != nil {
		return nil, gfx.MemoryRequirements{}, fmt.Errorf("vk.CreateImage(): %s", err.Error())
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, image, &req)
	return image, requirements(req), nil
}

// DestroyImage implements gfx.ResourceDevice.
func (d *Device) DestroyImage(h gfx.Handle) {
	if image, ok := h.(vk.Image); ok {
		vk.DestroyImage(d.device, image, nil)
	}
}

// AllocateMemory implements gfx.ResourceDevice.
func (d *Device) AllocateMemory(size uint64, typeIndex uint32) (gfx.Handle, error) {
	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}

	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(d.device, &mai, nil, &memory)); err != nil {
		return nil, fmt.Errorf("vk.AllocateMemory(): %s", err.Error())
	}
	return memory, nil
}

// FreeMemory implements gfx.ResourceDevice.
func (d *Device) FreeMemory(h gfx.Handle) {
	if memory, ok := h.(vk.DeviceMemory); ok {
		vk.FreeMemory(d.device, memory, nil)
	}
}

// BindBufferMemory implements gfx.ResourceDevice.
func (d *Device) BindBufferMemory(buffer, memory gfx.Handle) error {
	if err := vk.Error(vk.BindBufferMemory(d.device, buffer.(vk.Buffer), memory.(vk.DeviceMemory), 0)); err != nil {
		return fmt.Errorf("vk.BindBufferMemory(): %s", err.Error())
	}
	return nil
}

// BindImageMemory implements gfx.ResourceDevice.
func (d *Device) BindImageMemory(image, memory gfx.Handle) error {
	if err := vk.Error(vk.BindImageMemory(d.device, image.(vk.Image), memory.(vk.DeviceMemory), 0)); err != nil {
		return fmt.Errorf("vk.BindImageMemory(): %s", err.Error())
	}
	return nil
}

// MapMemory implements gfx.ResourceDevice.
func (d *Device) MapMemory(memory gfx.Handle, size uint64) ([]byte, error) {
	var memMapped unsafe.Pointer
	if err := vk.Error(vk.MapMemory(d.device, memory.(vk.DeviceMemory), 0, vk.DeviceSize(size), 0, &memMapped)); err != nil {
		return nil, fmt.Errorf("vk.MapMemory(): %s", err.Error())
	}
	if memMapped == nil {
		return nil, errors.New("vk.MapMemory(): null mapping")
	}
	return unsafe.Slice((*byte)(memMapped), size), nil
}

// UnmapMemory implements gfx.ResourceDevice.
func (d *Device) UnmapMemory(memory gfx.Handle) {
	vk.UnmapMemory(d.device, memory.(vk.DeviceMemory))
}

// CreateImageView implements gfx.ResourceDevice.
func (d *Device) CreateImageView(info gfx.ImageViewInfo) (gfx.Handle, error) {
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    info.Image.(vk.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: imageSubresource(info.Aspect),
	}

	var imageView vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.device, &ivci, nil, &imageView)); err != nil {
		return nil, fmt.Errorf("vk.CreateImageView(): %s", err.Error())
	}
	return imageView, nil
}

// DestroyImageView implements gfx.ResourceDevice.
func (d *Device) DestroyImageView(h gfx.Handle) {
	if view, ok := h.(vk.ImageView); ok {
		vk.DestroyImageView(d.device, view, nil)
	}
}

// CreateSampler implements gfx.ResourceDevice.
func (d *Device) CreateSampler(info gfx.SamplerInfo) (gfx.Handle, error) {
	mode := vk.SamplerAddressMode(info.AddressMode)
	sci := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.Filter(info.Filter),
		MinFilter:               vk.Filter(info.Filter),
		AddressModeU:            mode,
		AddressModeV:            mode,
		AddressModeW:            mode,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorFloatOpaqueWhite,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MipLodBias:              0,
		MinLod:                  0,
		MaxLod:                  0,
	}

	var sampler vk.Sampler
	if err := vk.Error(vk.CreateSampler(d.device, &sci, nil, &sampler)); err != nil {
		return nil, fmt.Errorf("vk.CreateSampler(): %s", err.Error())
	}
	return sampler, nil
}

// DestroySampler implements gfx.ResourceDevice.
func (d *Device) DestroySampler(h gfx.Handle) {
	if sampler, ok := h.(vk.Sampler); ok {
		vk.DestroySampler(d.device, sampler, nil)
	}
}

var _ gfx.Device = (*Device)(nil)

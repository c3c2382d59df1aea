// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"
	"math"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
)

// SurfaceCapabilities implements gfx.PresentationDevice.
func (d *Device) SurfaceCapabilities() (gfx.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.physicalDevice, d.surface, &caps)); err != nil {
		return gfx.SurfaceCapabilities{}, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return gfx.SurfaceCapabilities{
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
		CurrentExtent:  gfx.Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent: gfx.Extent2D{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent: gfx.Extent2D{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
	}, nil
}

// SurfaceFormats implements gfx.PresentationDevice.
func (d *Device) SurfaceFormats() ([]gfx.SurfaceFormat, error) {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physicalDevice, d.surface, &surfaceFormatCount, nil)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physicalDevice, d.surface, &surfaceFormatCount, surfaceFormats)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	formats := make([]gfx.SurfaceFormat, 0, surfaceFormatCount)
	for _, sf := range surfaceFormats {
		sf.Deref()
		formats = append(formats, gfx.SurfaceFormat{
			Format:     gfx.Format(sf.Format),
			ColorSpace: gfx.ColorSpace(sf.ColorSpace),
		})
	}
	return formats, nil
}

// CreateSwapchain implements gfx.PresentationDevice.
func (d *Device) CreateSwapchain(info gfx.SwapchainInfo) (gfx.Handle, error) {
	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.physicalDevice, d.surface, &surfaceCapabilities)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	surfaceCapabilities.Deref()

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}

	for i := 0; i < len(compositeAlphaFlags); i++ {
		alphaFlags := vk.CompositeAlphaFlags(compositeAlphaFlags[i])
		if surfaceCapabilities.SupportedCompositeAlpha&alphaFlags != 0 {
			compositeAlpha = compositeAlphaFlags[i]
			break
		}
	}

	old, _ := info.Old.(vk.Swapchain)
	scci := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surface,
		MinImageCount:    info.ImageCount,
		ImageFormat:      vk.Format(info.Format.Format),
		ImageColorSpace:  vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:      extent(info.Extent),
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     old,
	}

	if !d.queues.Shared() {
		families := d.queues.Families()
		scci.ImageSharingMode = vk.SharingModeConcurrent
		scci.QueueFamilyIndexCount = uint32(len(families))
		scci.PQueueFamilyIndices = families
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.device, &scci, nil, &swapchain)); err != nil {
		return nil, errors.New("vk.CreateSwapchain(): " + err.Error())
	}
	return swapchain, nil
}

// SwapchainImages implements gfx.PresentationDevice.
func (d *Device) SwapchainImages(h gfx.Handle) ([]gfx.Handle, error) {
	swapchain := h.(vk.Swapchain)

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, nil)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}

	images := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, images)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}

	handles := make([]gfx.Handle, len(images))
	for i, img := range images {
		handles[i] = img
	}
	return handles, nil
}

// DestroySwapchain implements gfx.PresentationDevice.
func (d *Device) DestroySwapchain(h gfx.Handle) {
	if swapchain, ok := h.(vk.Swapchain); ok {
		vk.DestroySwapchain(d.device, swapchain, nil)
	}
}

func presentationResult(call string, result vk.Result) error {
	switch result {
	case vk.Success:
		return nil
	case vk.Suboptimal:
		return gfx.ErrSuboptimal
	case vk.ErrorOutOfDate:
		return gfx.ErrOutOfDate
	default:
		return fmt.Errorf("%s: %s", call, vk.Error(result))
	}
}

// AcquireNextImage implements gfx.PresentationDevice.
func (d *Device) AcquireNextImage(swapchain, semaphore gfx.Handle) (uint32, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(d.device, swapchain.(vk.Swapchain), math.MaxUint64, semaphore.(vk.Semaphore), nil, &imageIndex)
	return imageIndex, presentationResult("vk.AcquireNextImage()", result)
}

// Present implements gfx.PresentationDevice.
func (d *Device) Present(info gfx.PresentInfo) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{info.Wait.(vk.Semaphore)},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{info.Swapchain.(vk.Swapchain)},
		PImageIndices:      []uint32{info.ImageIndex},
	}
	return presentationResult("vk.QueuePresent()", vk.QueuePresent(d.presentQueue, &presentInfo))
}

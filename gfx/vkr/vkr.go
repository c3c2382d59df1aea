// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements the vulkan renderer backend of gfx.
package vkr

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
)

// DefaultApplicationInfo describes the engine to the Vulkan driver.
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("Umbra"),
	PEngineName:        safeString("Umbra"),
}

// ValidationLayer is enabled when validation is requested.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}

func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}

func extent(e gfx.Extent2D) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func requirements(req vk.MemoryRequirements) gfx.MemoryRequirements {
	req.Deref()
	return gfx.MemoryRequirements{
		Size:      uint64(req.Size),
		Alignment: uint64(req.Alignment),
		TypeBits:  req.MemoryTypeBits,
	}
}

func memoryProperties(pd vk.PhysicalDevice) gfx.MemoryProperties {
	var memProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memProperties)
	memProperties.Deref()

	var props gfx.MemoryProperties
	for idx := uint32(0); idx < memProperties.MemoryTypeCount; idx++ {
		memProperties.MemoryTypes[idx].Deref()
		props.Types = append(props.Types, gfx.MemoryType{
			PropertyFlags: gfx.MemoryPropertyFlags(memProperties.MemoryTypes[idx].PropertyFlags),
			HeapIndex:     memProperties.MemoryTypes[idx].HeapIndex,
		})
	}
	for idx := uint32(0); idx < memProperties.MemoryHeapCount; idx++ {
		memProperties.MemoryHeaps[idx].Deref()
		props.HeapSizes = append(props.HeapSizes, uint64(memProperties.MemoryHeaps[idx].Size))
	}
	return props
}

func imageSubresource(aspect gfx.ImageAspectFlags) vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(aspect),
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"testing"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestSafeStrings(t *testing.T) {
	assert.Equal(t, "Umbra\x00", safeString("Umbra"))
	assert.Equal(t, []string{"VK_KHR_swapchain\x00", ValidationLayer + "\x00"},
		safeStrings([]string{"VK_KHR_swapchain", ValidationLayer}))
	assert.Empty(t, safeStrings(nil))
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.2.3", versionString(vk.MakeVersion(1, 2, 3)))
	assert.Equal(t, "1.0.0", versionString(DefaultApplicationInfo.ApiVersion))
}

func TestConversions(t *testing.T) {
	assert.Equal(t, vk.Extent2D{Width: 1280, Height: 720}, extent(gfx.Extent2D{Width: 1280, Height: 720}))

	r := imageSubresource(gfx.ImageAspectDepth)
	assert.Equal(t, vk.ImageAspectFlags(gfx.ImageAspectDepth), r.AspectMask)
	assert.Equal(t, uint32(1), r.LevelCount)
	assert.Equal(t, uint32(1), r.LayerCount)
}

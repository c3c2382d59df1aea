// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/devblok/umbra/core"
	"github.com/devblok/umbra/gfx"
	"github.com/devblok/umbra/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMemoryType(t *testing.T) {
	props := gfx.MemoryProperties{Types: []gfx.MemoryType{
		{PropertyFlags: gfx.MemoryDeviceLocal},
		{PropertyFlags: gfx.MemoryHostVisible},
		{PropertyFlags: gfx.MemoryHostVisible | gfx.MemoryHostCoherent},
		{PropertyFlags: gfx.MemoryHostVisible | gfx.MemoryHostCoherent | gfx.MemoryHostCached},
	}}
	coherent := gfx.MemoryHostVisible | gfx.MemoryHostCoherent

	for _, c := range []struct {
		filter uint32
		prop   gfx.MemoryPropertyFlags
		want   uint32
	}{
		{0xf, gfx.MemoryDeviceLocal, 0},
		{0xf, gfx.MemoryHostVisible, 1},
		{0xf, coherent, 2},
		{0x8, coherent, 3},
		{0xe, 0, 1},
	} {
		got, err := core.FindMemoryType(props, c.filter, c.prop)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "filter %#x prop %#x", c.filter, c.prop)
	}

	_, err := core.FindMemoryType(props, 0x1, coherent)
	assert.ErrorIs(t, err, gfx.ErrNoMemoryType)

	_, err = core.FindMemoryType(gfx.MemoryProperties{}, 0xffffffff, 0)
	assert.ErrorIs(t, err, gfx.ErrNoMemoryType)
}

func TestClampExtent(t *testing.T) {
	caps := gfx.SurfaceCapabilities{
		MinImageExtent: gfx.Extent2D{Width: 64, Height: 64},
		MaxImageExtent: gfx.Extent2D{Width: 2048, Height: 2048},
	}
	for _, c := range []struct{ in, want gfx.Extent2D }{
		{gfx.Extent2D{Width: 1280, Height: 720}, gfx.Extent2D{Width: 1280, Height: 720}},
		{gfx.Extent2D{}, gfx.Extent2D{Width: 64, Height: 64}},
		{gfx.Extent2D{Width: 4000, Height: 10}, gfx.Extent2D{Width: 2048, Height: 64}},
	} {
		assert.Equal(t, c.want, core.ClampExtent(caps, c.in))
	}

	unbounded := gfx.SurfaceCapabilities{}
	assert.Equal(t, gfx.Extent2D{Width: 1, Height: 1}, core.ClampExtent(unbounded, gfx.Extent2D{}))
	assert.Equal(t, gfx.Extent2D{Width: 9000, Height: 1}, core.ClampExtent(unbounded, gfx.Extent2D{Width: 9000}))
}

func TestChooseSurfaceFormat(t *testing.T) {
	unorm := gfx.SurfaceFormat{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear}
	srgb := gfx.SurfaceFormat{Format: gfx.FormatR8G8B8A8Srgb, ColorSpace: gfx.ColorSpaceSrgbNonlinear}
	linear := gfx.SurfaceFormat{Format: gfx.FormatB8G8R8A8Srgb, ColorSpace: 1000104001}

	f, err := core.ChooseSurfaceFormat([]gfx.SurfaceFormat{unorm, linear, srgb})
	require.NoError(t, err)
	assert.Equal(t, srgb, f)

	f, err = core.ChooseSurfaceFormat([]gfx.SurfaceFormat{linear, unorm})
	require.NoError(t, err)
	assert.Equal(t, linear, f)

	_, err = core.ChooseSurfaceFormat(nil)
	assert.ErrorIs(t, err, gfx.ErrNoSurfaceFormat)
}

func TestSelectPhysicalDevice(t *testing.T) {
	integrated := gfx.PhysicalDevice{Name: "a", Type: gfx.PhysicalDeviceTypeIntegrated}
	discrete := gfx.PhysicalDevice{Name: "b", Type: gfx.PhysicalDeviceTypeDiscrete}
	cpu := gfx.PhysicalDevice{Name: "c", Type: gfx.PhysicalDeviceTypeCPU}

	d, err := core.SelectPhysicalDevice([]gfx.PhysicalDevice{integrated, discrete})
	require.NoError(t, err)
	assert.Equal(t, "b", d.Name)

	d, err = core.SelectPhysicalDevice([]gfx.PhysicalDevice{cpu, integrated})
	require.NoError(t, err)
	assert.Equal(t, "c", d.Name)

	_, err = core.SelectPhysicalDevice(nil)
	assert.ErrorIs(t, err, gfx.ErrNoPhysicalDevice)
}

func TestSelectQueueRoles(t *testing.T) {
	roles, err := core.SelectQueueRoles([]gfx.QueueFamily{
		{Index: 0, Count: 1, Graphics: true},
		{Index: 1, Count: 1, Present: true},
		{Index: 2, Count: 4, Graphics: true, Present: true},
	})
	require.NoError(t, err)
	assert.True(t, roles.Shared())
	assert.Equal(t, uint32(2), roles.Graphics())

	roles, err = core.SelectQueueRoles([]gfx.QueueFamily{
		{Index: 0, Count: 0, Graphics: true, Present: true},
		{Index: 1, Count: 1, Graphics: true},
		{Index: 2, Count: 1, Present: true},
	})
	require.NoError(t, err)
	assert.Equal(t, gfx.QueueRoles{
		{Role: gfx.QueueGraphics, Family: 1},
		{Role: gfx.QueuePresent, Family: 2},
	}, roles)

	_, err = core.SelectQueueRoles(nil)
	assert.ErrorIs(t, err, gfx.ErrNoQueueFamily)

	_, err = core.SelectQueueRoles([]gfx.QueueFamily{{Index: 0, Count: 1, Graphics: true}})
	assert.ErrorIs(t, err, gfx.ErrNoQueueFamily)
}

func TestBufferWrite(t *testing.T) {
	dev := gfxtest.NewDevice()
	ctx := core.NewContext(dev, nil)

	buf, err := ctx.Factory.NewBuffer(16, gfx.BufferUsageUniformBuffer, true)
	require.NoError(t, err)
	require.NoError(t, buf.Write(4, []byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, dev.Contents(buf.Mem().Get())[:8])
	assert.Error(t, buf.Write(14, []byte{1, 2, 3}))

	local, err := ctx.Factory.NewBuffer(16, gfx.BufferUsageVertexBuffer, false)
	require.NoError(t, err)
	assert.Error(t, local.Write(0, []byte{1}))

	allocs := dev.Named("AllocateMemory")
	require.Len(t, allocs, 2)
	assert.Equal(t, uint32(0), allocs[0].Args[1], "host visible memory type")
	assert.Equal(t, uint32(1), allocs[1].Args[1], "device local memory type")

	buf.Release()
	buf.Release()
	local.Release()
	assert.Empty(t, dev.Leaks())
	assert.Empty(t, dev.Violations())
}

func TestBufferWithoutMemoryType(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Memory.Types = dev.Memory.Types[:1]
	ctx := core.NewContext(dev, nil)

	_, err := ctx.Factory.NewBuffer(16, gfx.BufferUsageVertexBuffer, false)
	assert.ErrorIs(t, err, gfx.ErrNoMemoryType)
	assert.Empty(t, dev.Leaks())
}

func TestImageLayoutMismatch(t *testing.T) {
	dev := gfxtest.NewDevice()
	ctx := core.NewContext(dev, nil)

	img, err := ctx.Factory.NewImage(core.TextureFormat, gfx.Extent2D{Width: 4, Height: 4},
		gfx.ImageUsageTransferDst|gfx.ImageUsageSampled, gfx.ImageAspectColor)
	require.NoError(t, err)
	defer img.Release()
	assert.Equal(t, gfx.ImageLayoutUndefined, img.Layout())

	cmd := gfxtest.Object{Kind: "command-buffer"}
	err = img.Transition(cmd, gfx.ImageLayoutTransferDstOptimal, gfx.ImageLayoutShaderReadOnlyOptimal)
	assert.ErrorIs(t, err, gfx.ErrLayoutMismatch)
	assert.Zero(t, dev.Count("CmdPipelineBarrier"))
	assert.Equal(t, gfx.ImageLayoutUndefined, img.Layout())

	require.NoError(t, img.Transition(cmd, gfx.ImageLayoutUndefined, gfx.ImageLayoutTransferDstOptimal))
	require.NoError(t, img.Transition(cmd, gfx.ImageLayoutTransferDstOptimal, gfx.ImageLayoutShaderReadOnlyOptimal))
	assert.Equal(t, gfx.ImageLayoutShaderReadOnlyOptimal, img.Layout())

	barriers := dev.Named("CmdPipelineBarrier")
	require.Len(t, barriers, 2)
	last := barriers[1].Args[1].(gfx.ImageBarrier)
	assert.Equal(t, gfx.StageTransfer, last.SrcStage)
	assert.Equal(t, gfx.StageFragmentShader, last.DstStage)

	err = img.Transition(cmd, gfx.ImageLayoutShaderReadOnlyOptimal, gfx.ImageLayoutPresentSrc)
	assert.Error(t, err)
}

func TestCamera(t *testing.T) {
	cam := core.NewCamera(core.DefaultConfiguration().Camera)
	proj := cam.Projection(16.0 / 9.0)
	assert.Less(t, proj[5], float32(0), "projection flips Y")

	cam.Position[0] = 3
	cam.Rotation = [3]float32{}
	p := cam.View().Mul4x1([4]float32{0, 0, 0, 1})
	assert.InDelta(t, 3, p[0], 1e-5)

	u := cam.Uniforms(core.DefaultLight(), 1)
	assert.Equal(t, core.DefaultLight().Projection(), u.LightProjection)
	assert.Equal(t, core.DefaultLight().View(), u.LightView)
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/devblok/umbra/gfx"
	"github.com/devblok/umbra/gfx/gfxtest"
	"github.com/devblok/umbra/world"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShaders = ShaderSet{
	ShadowVertex:   []uint32{0x07230203},
	ShadowFragment: []uint32{0x07230203},
	MainVertex:     []uint32{0x07230203},
	MainFragment:   []uint32{0x07230203},
}

func quad(name string) *world.Model {
	return &world.Model{
		Name:   name,
		Colour: glm.Vec4{1, 1, 1, 1},
		Vertices: []world.Vertex{
			{Position: glm.Vec3{0, 0, 0}},
			{Position: glm.Vec3{1, 0, 0}},
			{Position: glm.Vec3{1, 1, 0}},
			{Position: glm.Vec3{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

func pixel(name string) *world.Texture {
	return &world.Texture{Name: name, Width: 1, Height: 1, Pixels: []byte{255, 0, 0, 255}}
}

// twoObjects places M1/T1 at the origin and M2/T2 at (5,0,0).
func twoObjects() *world.Bundle {
	return &world.Bundle{
		World: &world.World{
			Name:     "two.sw",
			Models:   []string{"m1.sm", "m2.sm"},
			Textures: []string{"t1.simg", "t2.simg"},
			Objects: []world.Object{
				{Model: 0, Texture: 0, Scale: glm.Vec3{1, 1, 1}},
				{Model: 1, Texture: 1, Position: glm.Vec3{5, 0, 0}, Scale: glm.Vec3{1, 1, 1}},
			},
		},
		Models:   []*world.Model{quad("m1.sm"), quad("m2.sm")},
		Textures: []*world.Texture{pixel("t1.simg"), pixel("t2.simg")},
	}
}

func newTestEngine(t *testing.T, setup func(*gfxtest.Instance)) (*Engine, *gfxtest.Instance) {
	t.Helper()
	inst := gfxtest.NewInstance()
	if setup != nil {
		setup(inst)
	}
	e, err := NewEngine(inst, &gfxtest.Window{}, testShaders, DefaultConfiguration(), nil)
	require.NoError(t, err)
	return e, inst
}

func frames(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		status, err := e.Frame()
		require.NoError(t, err)
		require.Equal(t, FrameReady, status, "frame %d", i+1)
	}
}

func TestEngineConstruction(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device

	assert.Equal(t, "Fake Discrete", inst.Created.Physical.Name)
	assert.True(t, inst.Created.Queues.Shared())
	assert.Equal(t, gfx.Extent2D{Width: 1280, Height: 720}, e.Extent())
	assert.Equal(t, 2, e.swapchain.ImageCount())
	assert.Equal(t, gfx.FormatB8G8R8A8Srgb, e.swapchain.Format().Format)
	assert.Equal(t, 2, dev.Live("renderpass"))
	assert.Equal(t, 3, dev.Live("framebuffer"), "two swapchain framebuffers and the shadow framebuffer")
	assert.Equal(t, 2, dev.Live("pipeline"))
	assert.Zero(t, dev.Live("shader"), "shader modules do not outlive pipeline creation")

	e.Destroy()
	assert.True(t, dev.Destroyed())
	assert.True(t, inst.Destroyed)
	assert.Empty(t, dev.Leaks())
	assert.Empty(t, dev.Violations())
}

func TestEngineConstructionFailureReleases(t *testing.T) {
	inst := gfxtest.NewInstance()
	inst.Device.FailOn = map[string]error{"CreateGraphicsPipeline": errors.New("pipeline compile failed")}

	_, err := NewEngine(inst, &gfxtest.Window{}, testShaders, DefaultConfiguration(), nil)
	require.Error(t, err)
	assert.True(t, inst.Device.Destroyed())
	assert.True(t, inst.Destroyed)
	assert.Empty(t, inst.Device.Leaks())
}

func TestEngineImageCount(t *testing.T) {
	inst := gfxtest.NewInstance()
	inst.Device.ImageCount = func(requested uint32) uint32 { return requested + 1 }
	_, err := NewEngine(inst, &gfxtest.Window{}, testShaders, DefaultConfiguration(), nil)
	assert.ErrorIs(t, err, gfx.ErrImageCount)
	assert.Empty(t, inst.Device.Leaks())

	inst = gfxtest.NewInstance()
	inst.Device.ImageCount = func(uint32) uint32 { return 0 }
	_, err = NewEngine(inst, &gfxtest.Window{}, testShaders, DefaultConfiguration(), nil)
	assert.ErrorIs(t, err, gfx.ErrNoSwapchainImages)
	assert.Empty(t, inst.Device.Leaks())
}

func TestEngineNoQueueFamily(t *testing.T) {
	inst := gfxtest.NewInstance()
	inst.Families = nil
	_, err := NewEngine(inst, &gfxtest.Window{}, testShaders, DefaultConfiguration(), nil)
	assert.ErrorIs(t, err, gfx.ErrNoQueueFamily)
	assert.True(t, inst.Destroyed)
}

func TestLoadWorldUploads(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()

	require.NoError(t, e.LoadWorld(twoObjects()))
	assert.Equal(t, 4, dev.Count("CmdCopyBuffer"))
	assert.Equal(t, 2, dev.Count("CmdCopyBufferToImage"))
	assert.Equal(t, 4, dev.Count("CmdPipelineBarrier"))
	assert.Equal(t, 6, dev.Live("buffer"), "staging buffers are released")
	assert.Len(t, e.Objects(), 2)
	assert.Equal(t, TextureFormat, e.Scene().Texture(0).image.Format())
	assert.Equal(t, gfx.ImageLayoutShaderReadOnlyOptimal, e.Scene().Texture(1).image.Layout())

	live := dev.Live("")
	require.NoError(t, e.LoadWorld(twoObjects()))
	assert.Equal(t, live, dev.Live(""), "reloading frees the previous scene")
	assert.Empty(t, dev.Violations())
}

func TestLoadWorldLimits(t *testing.T) {
	inst := gfxtest.NewInstance()
	cfg := DefaultConfiguration()
	cfg.Renderer.MaxTextures = 1
	e, err := NewEngine(inst, &gfxtest.Window{}, testShaders, cfg, nil)
	require.NoError(t, err)
	defer e.Destroy()

	live := inst.Device.Live("")
	assert.Error(t, e.LoadWorld(twoObjects()))
	assert.Nil(t, e.Scene())

	b := twoObjects()
	b.Textures[1].Pixels = b.Textures[1].Pixels[:3]
	e.cfg.Renderer.MaxTextures = 2
	assert.Error(t, e.LoadWorld(b))
	assert.Nil(t, e.Scene())
	assert.Equal(t, live, inst.Device.Live(""), "a failed upload releases what it created")
}

func TestTwoObjectsDrawOrder(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))

	dev.ResetCalls()
	frames(t, e, 1)

	var passes []gfx.RenderPassBegin
	for _, c := range dev.Named("CmdBeginRenderPass") {
		passes = append(passes, c.Args[1].(gfx.RenderPassBegin))
	}
	require.Len(t, passes, 2)
	assert.True(t, passes[0].DepthOnly)
	assert.Equal(t, gfx.Extent2D{Width: 2000, Height: 2000}, passes[0].Extent)
	assert.False(t, passes[1].DepthOnly)
	assert.Equal(t, [4]float32{0.9, 0.9, 0.9, 1}, passes[1].ClearColor)

	var indices []uint32
	for _, c := range dev.Named("CmdPushConstants") {
		indices = append(indices, gfxtest.PushIndex(c))
	}
	assert.Equal(t, []uint32{0, 1, 0, 1}, indices)

	draws := dev.Named("CmdDrawIndexed")
	require.Len(t, draws, 4)
	for _, d := range draws {
		assert.Equal(t, uint32(6), d.Args[1])
	}

	vertex := dev.Named("CmdBindVertexBuffer")
	require.Len(t, vertex, 4)
	assert.Equal(t, vertex[0].Args[1], vertex[2].Args[1])
	assert.Equal(t, vertex[1].Args[1], vertex[3].Args[1])
	assert.NotEqual(t, vertex[0].Args[1], vertex[1].Args[1])

	// The shadow map barrier sits between the passes.
	var order []string
	for _, c := range dev.Named("CmdBeginRenderPass", "CmdEndRenderPass", "CmdPipelineBarrier") {
		order = append(order, c.Name)
	}
	assert.Equal(t, []string{
		"CmdBeginRenderPass", "CmdEndRenderPass", "CmdPipelineBarrier",
		"CmdBeginRenderPass", "CmdEndRenderPass",
	}, order)
	barrier := dev.Named("CmdPipelineBarrier")[0].Args[1].(gfx.ImageBarrier)
	assert.Equal(t, gfx.ImageLayoutDepthStencilAttachmentOptimal, barrier.OldLayout)
	assert.Equal(t, gfx.ImageLayoutShaderReadOnlyOptimal, barrier.NewLayout)

	// Texture sets are bound at set 1, the shadow set once at set 2.
	var sets []uint32
	for _, c := range dev.Named("CmdBindDescriptorSets") {
		sets = append(sets, c.Args[2].(uint32))
	}
	assert.Equal(t, []uint32{GlobalSet, TextureSet, TextureSet, ShadowSet, TextureSet, TextureSet}, sets)

	// The second model matrix carries the (5,0,0) translation.
	objects := dev.Contents(e.uniforms.objects.Mem().Get())
	x := math.Float32frombits(binary.LittleEndian.Uint32(objects[mat4Size+12*4:]))
	assert.Equal(t, float32(5), x)

	assert.Equal(t, 1, dev.Count("Submit"))
	assert.Equal(t, 1, dev.Count("Present"))
	assert.Empty(t, dev.Violations())
}

func TestFenceWaitedBeforeReset(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))

	dev.ResetCalls()
	frames(t, e, 20)

	waited := false
	for _, c := range dev.Calls() {
		switch c.Name {
		case "WaitForFence":
			waited = true
		case "ResetFence":
			assert.True(t, waited, "fence reset without a wait")
		case "ResetCommandBuffer":
			assert.True(t, waited, "command buffer reset without a wait")
		case "Submit":
			waited = false
		}
	}
	assert.Equal(t, 20, dev.Count("Submit"))
	assert.Empty(t, dev.Violations())
}

func TestOutOfDateOnFrameTen(t *testing.T) {
	e, inst := newTestEngine(t, func(inst *gfxtest.Instance) {
		inst.Device.AcquireHook = func(n int) error {
			if n == 10 {
				return gfx.ErrOutOfDate
			}
			return nil
		}
	})
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))
	dev.ResetCalls()

	frames(t, e, 9)
	submits, draws := dev.Count("Submit"), dev.Count("CmdDrawIndexed")

	status, err := e.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameSkipped, status)
	assert.Equal(t, submits, dev.Count("Submit"), "nothing submitted for the skipped frame")
	assert.Equal(t, draws, dev.Count("CmdDrawIndexed"), "nothing recorded for the skipped frame")
	assert.Equal(t, 1, dev.Count("CreateSwapchain"))

	frames(t, e, 1)
	assert.Equal(t, submits+1, dev.Count("Submit"))
	assert.Equal(t, 1, dev.Count("CreateSwapchain"))
	assert.Empty(t, dev.Violations())
}

func TestSuboptimalAcquireRenewsSemaphore(t *testing.T) {
	e, inst := newTestEngine(t, func(inst *gfxtest.Instance) {
		inst.Device.AcquireHook = func(n int) error {
			if n == 2 {
				return gfx.ErrSuboptimal
			}
			return nil
		}
	})
	dev := inst.Device
	defer e.Destroy()

	frames(t, e, 1)
	status, err := e.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameSkipped, status)
	assert.Equal(t, 1, dev.Count("DestroySemaphore"))
	assert.Equal(t, 2, dev.Live("semaphore"))

	frames(t, e, 2)
	assert.Empty(t, dev.Violations())
}

func TestStalePresentRecreates(t *testing.T) {
	e, inst := newTestEngine(t, func(inst *gfxtest.Instance) {
		inst.Device.PresentHook = func(n int) error {
			if n == 2 {
				return gfx.ErrOutOfDate
			}
			return nil
		}
	})
	dev := inst.Device
	defer e.Destroy()

	frames(t, e, 3)
	assert.Equal(t, 2, dev.Count("CreateSwapchain"))
	assert.Equal(t, 3, dev.Count("Present"))
	assert.Empty(t, dev.Violations())
}

func TestResizeSequence(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))

	for _, c := range []struct {
		w, h uint32
		want gfx.Extent2D
	}{
		{1280, 720, gfx.Extent2D{Width: 1280, Height: 720}},
		{0, 0, gfx.Extent2D{Width: 1, Height: 1}},
		{1920, 1080, gfx.Extent2D{Width: 1920, Height: 1080}},
	} {
		e.Resize(c.w, c.h)
		frames(t, e, 1)
		assert.Equal(t, c.want, e.Extent())
	}

	assert.Equal(t, 3, dev.Count("CreateSwapchain"), "the unchanged 1280x720 resize is a no-op")
	scissors := dev.Named("CmdSetScissor")
	assert.Equal(t, gfx.Extent2D{Width: 1920, Height: 1080}, scissors[len(scissors)-1].Args[1])
	assert.Equal(t, 3, dev.Live("framebuffer"))
	assert.Empty(t, dev.Violations())
}

func TestRecreateIsIdempotent(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()

	e.swapchain.Resize(gfx.Extent2D{Width: 800, Height: 600})
	rebuilt, err := e.swapchain.Recreate()
	require.NoError(t, err)
	assert.True(t, rebuilt)

	rebuilt, err = e.swapchain.Recreate()
	require.NoError(t, err)
	assert.False(t, rebuilt)

	assert.Equal(t, 2, dev.Count("CreateSwapchain"))
	assert.Equal(t, 1, dev.Count("DestroySwapchain"))
	assert.Equal(t, 1, dev.Live("swapchain"))
}

func TestRecreateTeardownOrder(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()

	dev.ResetCalls()
	e.swapchain.invalidate()
	_, err := e.swapchain.Recreate()
	require.NoError(t, err)

	var order []string
	for _, c := range dev.Calls() {
		switch c.Name {
		case "WaitIdle", "DestroyFramebuffer", "DestroyImageView", "DestroyImage", "DestroySwapchain", "CreateSwapchain":
			if len(order) == 0 || order[len(order)-1] != c.Name {
				order = append(order, c.Name)
			}
		}
	}
	assert.Equal(t, []string{
		"WaitIdle", "DestroyFramebuffer", "DestroyImageView", "DestroyImage", "DestroySwapchain", "CreateSwapchain",
	}, order)
}

func TestSetObjects(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))

	one := e.Objects()[:1]
	require.NoError(t, e.SetObjects(one))
	inst.Device.ResetCalls()
	frames(t, e, 1)
	assert.Equal(t, 2, inst.Device.Count("CmdDrawIndexed"))

	assert.Error(t, e.SetObjects(make([]DrawObject, MaxObjects+1)))
	assert.Len(t, e.Objects(), 1)

	assert.Error(t, e.SetObjects([]DrawObject{{Transform: glm.Ident4()}}), "objects need a mesh and a texture")
	assert.Len(t, e.Objects(), 1)
	frames(t, e, 1)
}

func TestFrameRecoversAfterInvalidDrawList(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))
	valid := e.Objects()
	frames(t, e, 1)

	e.objects = []DrawObject{{Transform: glm.Ident4()}}
	dev.ResetCalls()
	status, err := e.Frame()
	assert.Error(t, err)
	assert.Equal(t, FrameSkipped, status)
	assert.Zero(t, dev.Count("AcquireNextImage"), "rejected before acquiring")
	assert.Zero(t, dev.Count("BeginCommandBuffer"))
	assert.Zero(t, dev.Count("ResetFence"))

	e.objects = valid
	frames(t, e, 2)
	assert.Empty(t, dev.Violations())
}

func TestShadowLayoutMismatchDiscardsFrame(t *testing.T) {
	e, inst := newTestEngine(t, nil)
	dev := inst.Device
	defer e.Destroy()
	require.NoError(t, e.LoadWorld(twoObjects()))
	frames(t, e, 1)

	shadow := e.shadowMap.Image()
	assert.Equal(t, gfx.ImageLayoutShaderReadOnlyOptimal, shadow.Layout())
	shadow.layout = gfx.ImageLayoutTransferDstOptimal

	dev.ResetCalls()
	status, err := e.Frame()
	assert.ErrorIs(t, err, gfx.ErrLayoutMismatch)
	assert.Equal(t, FrameSkipped, status)
	assert.Zero(t, dev.Count("Submit"))
	assert.Zero(t, dev.Count("Present"))
	assert.Zero(t, dev.Count("ResetFence"))
	assert.Equal(t, 1, dev.Count("CreateSwapchain"), "acquired image taken back")
	assert.True(t, dev.Signaled(e.frame.fence))
	assert.False(t, e.frame.recording)

	shadow.layout = gfx.ImageLayoutShaderReadOnlyOptimal
	frames(t, e, 2)
	assert.Equal(t, 2, dev.Count("Submit"))
	assert.Empty(t, dev.Violations())
}

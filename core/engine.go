// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	"github.com/devblok/umbra/world"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Engine owns the device and every resource created from it, and drives
// one frame at a time.
type Engine struct {
	instance gfx.Instance
	ctx      *Context
	log      *log.Entry
	cfg      Configuration

	swapchain   *Swapchain
	passes      *RenderPasses
	commands    *CommandPool
	shadowMap   *ShadowMap
	frame       *FrameSync
	descriptors *Descriptors
	uniforms    *Uniforms
	pipelines   *Pipelines
	renderer    *Renderer

	scene   *Scene
	objects []DrawObject
	camera  Camera
	light   Light

	resized bool
	desired gfx.Extent2D
}

// NewEngine picks a device, creates the surface of window and builds the
// swapchain, passes, pipelines and frame synchronisation on it. On error
// everything created so far is destroyed, the instance included.
func NewEngine(instance gfx.Instance, window gfx.Window, shaders ShaderSet, cfg Configuration, logger *log.Entry) (*Engine, error) {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	e := &Engine{
		instance: instance,
		log:      logger.WithField("component", "engine"),
		cfg:      cfg,
		camera:   NewCamera(cfg.Camera),
		light:    DefaultLight(),
		desired:  gfx.Extent2D{Width: cfg.Renderer.ScreenWidth, Height: cfg.Renderer.ScreenHeight},
	}
	if err := e.init(window, shaders, logger); err != nil {
		e.Destroy()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(window gfx.Window, shaders ShaderSet, logger *log.Entry) error {
	devices, err := e.instance.PhysicalDevices()
	if err != nil {
		return err
	}
	physical, err := SelectPhysicalDevice(devices)
	if err != nil {
		return err
	}
	e.log.WithFields(log.Fields{
		"device": physical.Name,
		"type":   physical.Type,
		"api":    physical.API,
	}).Info("physical device selected")

	if err := e.instance.CreateSurface(window); err != nil {
		return fmt.Errorf("create surface: %w", err)
	}

	families, err := e.instance.QueueFamilies(physical)
	if err != nil {
		return err
	}
	roles, err := SelectQueueRoles(families)
	if err != nil {
		return err
	}

	device, err := e.instance.CreateDevice(gfx.DeviceInfo{
		Physical:   physical,
		Queues:     roles,
		Extensions: e.cfg.Renderer.DeviceExtensions,
	})
	if err != nil {
		return err
	}
	e.ctx = NewContext(device, logger)
	e.log.WithFields(log.Fields{
		"graphics": roles.Graphics(),
		"present":  roles.Present(),
	}).Debug("logical device created")

	formats, err := device.SurfaceFormats()
	if err != nil {
		return err
	}
	format, err := ChooseSurfaceFormat(formats)
	if err != nil {
		return err
	}

	if e.swapchain, err = NewSwapchain(e.ctx, format, e.desired, e.cfg.Renderer.SwapchainSize); err != nil {
		return err
	}
	if e.passes, err = NewRenderPasses(e.ctx, format.Format); err != nil {
		return err
	}
	if e.commands, err = NewCommandPool(e.ctx); err != nil {
		return err
	}
	if e.shadowMap, err = NewShadowMap(e.ctx, e.cfg.Renderer.ShadowMapSize, e.passes.Shadow()); err != nil {
		return err
	}
	if err := e.swapchain.Bind(e.passes.Main()); err != nil {
		return err
	}
	if e.frame, err = NewFrameSync(e.ctx, e.commands, e.swapchain); err != nil {
		return err
	}

	if e.descriptors, err = NewDescriptors(e.ctx); err != nil {
		return err
	}
	if e.uniforms, err = NewUniforms(e.ctx); err != nil {
		return err
	}
	e.descriptors.BindUniforms(e.uniforms)
	e.descriptors.BindShadowMap(e.shadowMap.View(), e.shadowMap.Sampler())

	if e.pipelines, err = NewPipelines(e.ctx, e.passes, e.descriptors, shaders); err != nil {
		return err
	}
	e.renderer = NewRenderer(e.ctx, e.passes, e.pipelines, e.descriptors, e.shadowMap, e.cfg.Renderer.ClearColor)
	return nil
}

// Device returns the logical device.
func (e *Engine) Device() gfx.Device {
	return e.ctx.Device
}

// Extent returns the current swapchain extent.
func (e *Engine) Extent() gfx.Extent2D {
	return e.swapchain.Extent()
}

// Resize notes that the surface now needs width x height. The swapchain
// is recreated at the start of the next frame.
func (e *Engine) Resize(width, height uint32) {
	e.desired = gfx.Extent2D{Width: width, Height: height}
	e.resized = true
}

// Camera returns the viewer camera.
func (e *Engine) Camera() Camera {
	return e.camera
}

// SetCamera replaces the viewer camera.
func (e *Engine) SetCamera(c Camera) {
	e.camera = c
}

// SetLight replaces the shadow caster.
func (e *Engine) SetLight(l Light) {
	e.light = l
}

// LoadWorld uploads a world and makes its objects the draw list. The
// previous scene is released once the device is idle.
func (e *Engine) LoadWorld(b *world.Bundle) error {
	if err := e.ctx.Device.WaitIdle(); err != nil {
		return err
	}
	scene, err := NewScene(e.ctx, e.commands, e.descriptors.TextureLayout(), b, e.cfg.Renderer.MaxTextures)
	if err != nil {
		return err
	}
	if e.scene != nil {
		e.scene.Release()
	}
	e.scene = scene
	e.objects = scene.Objects()
	return nil
}

// Scene returns the loaded scene, nil before LoadWorld.
func (e *Engine) Scene() *Scene {
	return e.scene
}

// SetObjects replaces the draw list. The meshes and textures must belong
// to the loaded scene. A rejected list leaves the current one in place.
func (e *Engine) SetObjects(objects []DrawObject) error {
	if err := validateObjects(objects); err != nil {
		return err
	}
	e.objects = append(e.objects[:0:0], objects...)
	return nil
}

// Objects returns a copy of the draw list.
func (e *Engine) Objects() []DrawObject {
	return append([]DrawObject(nil), e.objects...)
}

// Frame renders and presents one frame. FrameSkipped means the swapchain
// was stale and has been recreated; the caller simply continues. A frame
// that fails while recording is discarded, so the next Frame starts over.
func (e *Engine) Frame() (FrameStatus, error) {
	if e.resized {
		e.swapchain.Resize(e.desired)
		if _, err := e.swapchain.Recreate(); err != nil {
			return FrameSkipped, err
		}
		e.resized = false
	}

	objects := e.objects
	if err := validateObjects(objects); err != nil {
		return FrameSkipped, err
	}
	models := make([]glm.Mat4, len(objects))
	for i, o := range objects {
		models[i] = o.Transform
	}
	extent := e.swapchain.Extent()
	uniforms := e.camera.Uniforms(e.light, float32(extent.Width)/float32(extent.Height))

	status, err := e.frame.Begin(e.pipelines.Layout(), e.descriptors.Global(), e.uniforms, uniforms, models)
	if err != nil || status == FrameSkipped {
		return status, err
	}

	framebuffer := e.swapchain.Framebuffer(e.frame.Image())
	if err := e.renderer.Record(e.frame.CommandBuffer(), framebuffer, extent, objects); err != nil {
		if derr := e.frame.Discard(err); derr != nil {
			e.log.WithError(derr).Error("discard frame")
		}
		return FrameSkipped, err
	}
	return FrameReady, e.frame.End()
}

// Destroy waits for the device and releases everything, framebuffers
// before their render passes, then the device and the instance.
func (e *Engine) Destroy() {
	if e.ctx != nil {
		if err := e.ctx.Device.WaitIdle(); err != nil {
			e.log.WithError(err).Error("wait for device before destroy")
		}
	}
	if e.scene != nil {
		e.scene.Release()
		e.scene = nil
	}
	e.objects = nil
	if e.pipelines != nil {
		e.pipelines.Release()
	}
	if e.uniforms != nil {
		e.uniforms.Release()
	}
	if e.descriptors != nil {
		e.descriptors.Release()
	}
	if e.frame != nil {
		e.frame.Release()
	}
	if e.shadowMap != nil {
		e.shadowMap.Release()
	}
	if e.commands != nil {
		e.commands.Release()
	}
	if e.swapchain != nil {
		e.swapchain.Destroy()
	}
	if e.passes != nil {
		e.passes.Release()
	}
	if e.ctx != nil {
		e.ctx.Device.Destroy()
		e.ctx = nil
	}
	if e.instance != nil {
		e.instance.Destroy()
		e.instance = nil
	}
}

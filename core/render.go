// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
)

// DrawObject is one model instance to draw. Mesh and texture are owned
// by the scene.
type DrawObject struct {
	Mesh      *Mesh
	Texture   *Texture
	Transform glm.Mat4
}

// validateObjects checks a draw list before anything is recorded for it.
func validateObjects(objects []DrawObject) error {
	if len(objects) > MaxObjects {
		return fmt.Errorf("%d objects exceed the limit of %d", len(objects), MaxObjects)
	}
	for i, o := range objects {
		if o.Mesh == nil || o.Texture == nil {
			return fmt.Errorf("draw object %d has no mesh or texture", i)
		}
	}
	return nil
}

// Renderer records the shadow pass and the colour pass of a frame.
type Renderer struct {
	device      gfx.Device
	passes      *RenderPasses
	pipelines   *Pipelines
	descriptors *Descriptors
	shadowMap   *ShadowMap
	clearColor  [4]float32
}

// NewRenderer ties the passes, pipelines and shadow map together.
func NewRenderer(ctx *Context, passes *RenderPasses, pipelines *Pipelines, descriptors *Descriptors, shadowMap *ShadowMap, clearColor [4]float32) *Renderer {
	return &Renderer{
		device:      ctx.Device,
		passes:      passes,
		pipelines:   pipelines,
		descriptors: descriptors,
		shadowMap:   shadowMap,
		clearColor:  clearColor,
	}
}

// Record records both passes into cmd. Object i is drawn with push
// constant index i in both passes, matching the model matrix slot it
// was uploaded to.
func (r *Renderer) Record(cmd, framebuffer gfx.Handle, extent gfx.Extent2D, objects []DrawObject) error {
	if err := validateObjects(objects); err != nil {
		return err
	}
	dev := r.device
	layout := r.pipelines.Layout()

	if err := r.shadowMap.BeginPass(cmd); err != nil {
		return err
	}
	shadowExtent := r.shadowMap.Extent()
	dev.CmdBindPipeline(cmd, r.pipelines.Shadow())
	dev.CmdSetViewport(cmd, gfx.ViewportFor(shadowExtent))
	dev.CmdSetScissor(cmd, shadowExtent)
	r.draw(cmd, layout, objects)
	r.shadowMap.EndPass(cmd)

	shadow := r.shadowMap.Image()
	if err := shadow.Transition(cmd, gfx.ImageLayoutDepthStencilAttachmentOptimal, gfx.ImageLayoutShaderReadOnlyOptimal); err != nil {
		return err
	}

	dev.CmdBeginRenderPass(cmd, gfx.RenderPassBegin{
		RenderPass:  r.passes.Main(),
		Framebuffer: framebuffer,
		Extent:      extent,
		ClearColor:  r.clearColor,
		ClearDepth:  1,
	})
	dev.CmdBindPipeline(cmd, r.pipelines.Main())
	dev.CmdSetViewport(cmd, gfx.ViewportFor(extent))
	dev.CmdSetScissor(cmd, extent)
	dev.CmdBindDescriptorSets(cmd, layout, ShadowSet, r.descriptors.Shadow())
	r.draw(cmd, layout, objects)
	dev.CmdEndRenderPass(cmd)
	return nil
}

func (r *Renderer) draw(cmd, layout gfx.Handle, objects []DrawObject) {
	for i, o := range objects {
		r.device.CmdBindVertexBuffer(cmd, o.Mesh.vertices.Get())
		r.device.CmdBindIndexBuffer(cmd, o.Mesh.indices.Get())
		r.device.CmdPushConstants(cmd, layout, gfx.ShaderStageVertex, pushIndex(uint32(i)))
		r.device.CmdBindDescriptorSets(cmd, layout, TextureSet, o.Texture.set)
		r.device.CmdDrawIndexed(cmd, o.Mesh.count)
	}
}

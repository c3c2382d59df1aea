// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
)

// VertexStride is the size of one vertex: position, normal and uv.
const VertexStride = 32

// shadowFinalLayout is the layout the shadow pass leaves its depth
// attachment in.
const shadowFinalLayout = gfx.ImageLayoutDepthStencilAttachmentOptimal

// pushConstantSize holds the object index.
const pushConstantSize = 4

var vertexAttributes = []gfx.VertexAttribute{
	{Location: 0, Format: gfx.FormatR32G32B32Sfloat, Offset: 0},
	{Location: 1, Format: gfx.FormatR32G32B32Sfloat, Offset: 12},
	{Location: 2, Format: gfx.FormatR32G32Sfloat, Offset: 24},
}

// NewRenderPasses creates the main colour pass for the swapchain format
// and the depth only shadow pass.
func NewRenderPasses(ctx *Context, color gfx.Format) (*RenderPasses, error) {
	rp := &RenderPasses{device: ctx.Device}

	var err error
	if rp.main, err = ctx.Device.CreateRenderPass(gfx.RenderPassInfo{
		Color: &gfx.AttachmentInfo{
			Format:      color,
			Store:       true,
			FinalLayout: gfx.ImageLayoutPresentSrc,
		},
		Depth: gfx.AttachmentInfo{
			Format:      DepthFormat,
			FinalLayout: gfx.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}); err != nil {
		return nil, err
	}

	if rp.shadow, err = ctx.Device.CreateRenderPass(gfx.RenderPassInfo{
		Depth: gfx.AttachmentInfo{
			Format:      DepthFormat,
			Store:       true,
			FinalLayout: shadowFinalLayout,
		},
	}); err != nil {
		rp.Release()
		return nil, err
	}
	return rp, nil
}

// RenderPasses holds the two render passes of a frame.
type RenderPasses struct {
	device gfx.Device
	main   gfx.Handle
	shadow gfx.Handle
}

// Main returns the colour pass.
func (rp *RenderPasses) Main() gfx.Handle {
	return rp.main
}

// Shadow returns the depth only pass.
func (rp *RenderPasses) Shadow() gfx.Handle {
	return rp.shadow
}

// Release destroys both passes.
func (rp *RenderPasses) Release() {
	if rp.main != nil {
		rp.device.DestroyRenderPass(rp.main)
		rp.main = nil
	}
	if rp.shadow != nil {
		rp.device.DestroyRenderPass(rp.shadow)
		rp.shadow = nil
	}
}

// NewPipelines creates the shared pipeline layout and the shadow and main
// pipelines. Shader modules only live for the duration of the call.
func NewPipelines(ctx *Context, passes *RenderPasses, descriptors *Descriptors, shaders ShaderSet) (*Pipelines, error) {
	dev := ctx.Device
	p := &Pipelines{device: dev}

	layout, err := dev.CreatePipelineLayout(gfx.PipelineLayoutInfo{
		SetLayouts:         descriptors.Layouts(),
		PushConstantSize:   pushConstantSize,
		PushConstantStages: gfx.ShaderStageVertex,
	})
	if err != nil {
		return nil, err
	}
	p.layout = layout

	if p.shadow, err = p.create(passes.Shadow(), shaders.ShadowVertex, shaders.ShadowFragment, gfx.CullFront, false); err != nil {
		p.Release()
		return nil, fmt.Errorf("shadow pipeline: %w", err)
	}
	if p.main, err = p.create(passes.Main(), shaders.MainVertex, shaders.MainFragment, gfx.CullBack, true); err != nil {
		p.Release()
		return nil, fmt.Errorf("main pipeline: %w", err)
	}
	return p, nil
}

// Pipelines holds both graphics pipelines and their layout.
type Pipelines struct {
	device gfx.Device
	layout gfx.Handle
	shadow gfx.Handle
	main   gfx.Handle
}

// Layout returns the pipeline layout shared by both pipelines.
func (p *Pipelines) Layout() gfx.Handle {
	return p.layout
}

// Shadow returns the depth only pipeline.
func (p *Pipelines) Shadow() gfx.Handle {
	return p.shadow
}

// Main returns the colour pipeline.
func (p *Pipelines) Main() gfx.Handle {
	return p.main
}

func (p *Pipelines) create(renderPass gfx.Handle, vertex, fragment []uint32, cull gfx.CullMode, color bool) (gfx.Handle, error) {
	vs, err := p.device.CreateShaderModule(vertex)
	if err != nil {
		return nil, err
	}
	defer p.device.DestroyShaderModule(vs)

	fs, err := p.device.CreateShaderModule(fragment)
	if err != nil {
		return nil, err
	}
	defer p.device.DestroyShaderModule(fs)

	return p.device.CreateGraphicsPipeline(gfx.PipelineInfo{
		Vertex:          vs,
		Fragment:        fs,
		Layout:          p.layout,
		RenderPass:      renderPass,
		VertexStride:    VertexStride,
		Attributes:      vertexAttributes,
		CullMode:        cull,
		ColorAttachment: color,
	})
}

// Release destroys the pipelines and the layout.
func (p *Pipelines) Release() {
	for _, h := range []*gfx.Handle{&p.main, &p.shadow} {
		if *h != nil {
			p.device.DestroyPipeline(*h)
			*h = nil
		}
	}
	if p.layout != nil {
		p.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
}

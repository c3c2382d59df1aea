// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
)

func attachmentDescription(a gfx.AttachmentInfo) vk.AttachmentDescription {
	storeOp := vk.AttachmentStoreOpDontCare
	if a.Store {
		storeOp = vk.AttachmentStoreOpStore
	}
	return vk.AttachmentDescription{
		Format:         vk.Format(a.Format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        storeOp,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayout(a.FinalLayout),
	}
}

// CreateRenderPass implements gfx.PipelineDevice.
func (d *Device) CreateRenderPass(info gfx.RenderPassInfo) (gfx.Handle, error) {
	var (
		attachments []vk.AttachmentDescription
		colorRefs   []vk.AttachmentReference
	)
	if info.Color != nil {
		attachments = append(attachments, attachmentDescription(*info.Color))
		colorRefs = append(colorRefs, vk.AttachmentReference{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		})
	}

	depthAttachmentRef := vk.AttachmentReference{
		Attachment: uint32(len(attachments)),
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	attachments = append(attachments, attachmentDescription(info.Depth))

	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit)
	access := vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
	if info.Color != nil {
		access |= vk.AccessFlags(vk.AccessColorAttachmentWriteBit)
	}
	subpassDependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  stages,
		SrcAccessMask: 0,
		DstStageMask:  stages,
		DstAccessMask: access,
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    uint32(len(colorRefs)),
		PColorAttachments:       colorRefs,
		PDepthStencilAttachment: &depthAttachmentRef,
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{subpassDependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(d.device, &rpci, nil, &renderPass)); err != nil {
		return nil, errors.New("vk.CreateRenderPass(): " + err.Error())
	}
	return renderPass, nil
}

// DestroyRenderPass implements gfx.PipelineDevice.
func (d *Device) DestroyRenderPass(h gfx.Handle) {
	if renderPass, ok := h.(vk.RenderPass); ok {
		vk.DestroyRenderPass(d.device, renderPass, nil)
	}
}

// CreateFramebuffer implements gfx.PipelineDevice.
func (d *Device) CreateFramebuffer(info gfx.FramebufferInfo) (gfx.Handle, error) {
	attachments := make([]vk.ImageView, len(info.Attachments))
	for i, a := range info.Attachments {
		attachments[i] = a.(vk.ImageView)
	}
	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      info.RenderPass.(vk.RenderPass),
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           info.Extent.Width,
		Height:          info.Extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if err := vk.Error(vk.CreateFramebuffer(d.device, &fci, nil, &framebuffer)); err != nil {
		return nil, fmt.Errorf("vk.CreateFramebuffer(): %s", err.Error())
	}
	return framebuffer, nil
}

// DestroyFramebuffer implements gfx.PipelineDevice.
func (d *Device) DestroyFramebuffer(h gfx.Handle) {
	if framebuffer, ok := h.(vk.Framebuffer); ok {
		vk.DestroyFramebuffer(d.device, framebuffer, nil)
	}
}

// CreateShaderModule implements gfx.PipelineDevice.
func (d *Device) CreateShaderModule(code []uint32) (gfx.Handle, error) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}

	var shader vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(d.device, &smci, nil, &shader)); err != nil {
		return nil, fmt.Errorf("vk.CreateShaderModule(): %s", err.Error())
	}
	return shader, nil
}

// DestroyShaderModule implements gfx.PipelineDevice.
func (d *Device) DestroyShaderModule(h gfx.Handle) {
	if shader, ok := h.(vk.ShaderModule); ok {
		vk.DestroyShaderModule(d.device, shader, nil)
	}
}

// CreateDescriptorSetLayout implements gfx.PipelineDevice.
func (d *Device) CreateDescriptorSetLayout(bindings []gfx.DescriptorBinding) (gfx.Handle, error) {
	vkBindings := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		count := b.Count
		if count == 0 {
			count = 1
		}
		vkBindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  vk.DescriptorType(b.Type),
			DescriptorCount: count,
			StageFlags:      vk.ShaderStageFlags(b.Stages),
		}
	}
	dslci := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(vkBindings)),
		PBindings:    vkBindings,
	}

	var layout vk.DescriptorSetLayout
	if err := vk.Error(vk.CreateDescriptorSetLayout(d.device, &dslci, nil, &layout)); err != nil {
		return nil, errors.New("vk.CreateDescriptorSetLayout(): " + err.Error())
	}
	return layout, nil
}

// DestroyDescriptorSetLayout implements gfx.PipelineDevice.
func (d *Device) DestroyDescriptorSetLayout(h gfx.Handle) {
	if layout, ok := h.(vk.DescriptorSetLayout); ok {
		vk.DestroyDescriptorSetLayout(d.device, layout, nil)
	}
}

// CreateDescriptorPool implements gfx.PipelineDevice.
func (d *Device) CreateDescriptorPool(info gfx.DescriptorPoolInfo) (gfx.Handle, error) {
	var poolSizes []vk.DescriptorPoolSize
	if info.UniformBuffers > 0 {
		poolSizes = append(poolSizes, vk.DescriptorPoolSize{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: info.UniformBuffers,
		})
	}
	if info.ImageSamplers > 0 {
		poolSizes = append(poolSizes, vk.DescriptorPoolSize{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: info.ImageSamplers,
		})
	}
	dpci := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       info.MaxSets,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}

	var descriptorPool vk.DescriptorPool
	if err := vk.Error(vk.CreateDescriptorPool(d.device, &dpci, nil, &descriptorPool)); err != nil {
		return nil, fmt.Errorf("vk.CreateDescriptorPool(): %s", err.Error())
	}
	return descriptorPool, nil
}

// DestroyDescriptorPool implements gfx.PipelineDevice.
func (d *Device) DestroyDescriptorPool(h gfx.Handle) {
	if pool, ok := h.(vk.DescriptorPool); ok {
		vk.DestroyDescriptorPool(d.device, pool, nil)
	}
}

// AllocateDescriptorSet implements gfx.PipelineDevice.
func (d *Device) AllocateDescriptorSet(pool, layout gfx.Handle) (gfx.Handle, error) {
	dsai := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool.(vk.DescriptorPool),
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.(vk.DescriptorSetLayout)},
	}

	var set vk.DescriptorSet
	if err := vk.Error(vk.AllocateDescriptorSets(d.device, &dsai, &set)); err != nil {
		return nil, fmt.Errorf("vk.AllocateDescriptorSets(): %s", err.Error())
	}
	return set, nil
}

// UpdateDescriptorSet implements gfx.PipelineDevice.
func (d *Device) UpdateDescriptorSet(h gfx.Handle, writes ...gfx.DescriptorWrite) {
	set := h.(vk.DescriptorSet)
	wds := make([]vk.WriteDescriptorSet, 0, len(writes))
	for _, w := range writes {
		wd := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      w.Binding,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorType(w.Type),
			DescriptorCount: 1,
		}
		switch w.Type {
		case gfx.DescriptorUniformBuffer:
			wd.PBufferInfo = []vk.DescriptorBufferInfo{{
				Buffer: w.Buffer.(vk.Buffer),
				Offset: 0,
				Range:  vk.DeviceSize(w.Range),
			}}
		case gfx.DescriptorCombinedImageSampler:
			wd.PImageInfo = []vk.DescriptorImageInfo{{
				ImageLayout: vk.ImageLayout(w.Layout),
				ImageView:   w.View.(vk.ImageView),
				Sampler:     w.Sampler.(vk.Sampler),
			}}
		}
		wds = append(wds, wd)
	}
	vk.UpdateDescriptorSets(d.device, uint32(len(wds)), wds, 0, nil)
}

// CreatePipelineLayout implements gfx.PipelineDevice.
func (d *Device) CreatePipelineLayout(info gfx.PipelineLayoutInfo) (gfx.Handle, error) {
	setLayouts := make([]vk.DescriptorSetLayout, len(info.SetLayouts))
	for i, l := range info.SetLayouts {
		setLayouts[i] = l.(vk.DescriptorSetLayout)
	}

	var pcr []vk.PushConstantRange
	if info.PushConstantSize > 0 {
		pcr = append(pcr, vk.PushConstantRange{
			Offset:     0,
			Size:       info.PushConstantSize,
			StageFlags: vk.ShaderStageFlags(info.PushConstantStages),
		})
	}

	plci := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(pcr)),
		PPushConstantRanges:    pcr,
	}

	var pipelineLayout vk.PipelineLayout
	if err := vk.Error(vk.CreatePipelineLayout(d.device, &plci, nil, &pipelineLayout)); err != nil {
		return nil, errors.New("vk.CreatePipelineLayout(): " + err.Error())
	}
	return pipelineLayout, nil
}

// DestroyPipelineLayout implements gfx.PipelineDevice.
func (d *Device) DestroyPipelineLayout(h gfx.Handle) {
	if layout, ok := h.(vk.PipelineLayout); ok {
		vk.DestroyPipelineLayout(d.device, layout, nil)
	}
}

// CreateGraphicsPipeline implements gfx.PipelineDevice.
func (d *Device) CreateGraphicsPipeline(info gfx.PipelineInfo) (gfx.Handle, error) {
	var stages []vk.PipelineShaderStageCreateInfo
	for _, s := range []struct {
		module gfx.Handle
		stage  vk.ShaderStageFlagBits
	}{
		{info.Vertex, vk.ShaderStageVertexBit},
		{info.Fragment, vk.ShaderStageFragmentBit},
	} {
		if s.module == nil {
			continue
		}
		shaderModule, ok := s.module.(vk.ShaderModule)
		if !ok {
			return nil, errors.New("failed to assert shader module to it's original type")
		}
		stages = append(stages, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  s.stage,
			Module: shaderModule,
			PName:  safeString("main"),
		})
	}

	attributes := make([]vk.VertexInputAttributeDescription, len(info.Attributes))
	for i, a := range info.Attributes {
		attributes[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  0,
			Format:   vk.Format(a.Format),
			Offset:   a.Offset,
		}
	}
	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    info.VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}}

	var blendAttachments []vk.PipelineColorBlendAttachmentState
	if info.ColorAttachment {
		blendAttachments = append(blendAttachments, vk.PipelineColorBlendAttachmentState{
			ColorWriteMask: 0xF,
			BlendEnable:    vk.False,
		})
	}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopologyTriangleList,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(info.CullMode),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       vk.True,
			DepthWriteEnable:      vk.True,
			DepthCompareOp:        vk.CompareOpLessOrEqual,
			DepthBoundsTestEnable: vk.False,
			Back: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
			StencilTestEnable: vk.False,
			Front: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: uint32(len(blendAttachments)),
			PAttachments:    blendAttachments,
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateScissor,
				vk.DynamicStateViewport,
			},
		},
		Layout:     info.Layout.(vk.PipelineLayout),
		RenderPass: info.RenderPass.(vk.RenderPass),
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vk.Error(vk.CreateGraphicsPipelines(d.device, nil, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		return nil, errors.New("vk.CreateGraphicsPipelines(): " + err.Error())
	}
	return pipelines[0], nil
}

// DestroyPipeline implements gfx.PipelineDevice.
func (d *Device) DestroyPipeline(h gfx.Handle) {
	if pipeline, ok := h.(vk.Pipeline); ok {
		vk.DestroyPipeline(d.device, pipeline, nil)
	}
}

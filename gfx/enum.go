// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

// Format is an image or vertex attribute format.
type Format uint32

// Formats used by the engine.
const (
	FormatUndefined          Format = 0
	FormatR8G8B8A8Unorm      Format = 37
	FormatR8G8B8A8Srgb       Format = 43
	FormatB8G8R8A8Unorm      Format = 44
	FormatB8G8R8A8Srgb       Format = 50
	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Sfloat Format = 109
	FormatD16Unorm           Format = 124
	FormatD32Sfloat          Format = 126
)

// IsSrgb8 reports whether the format is an 8-bit per channel sRGB format.
func (f Format) IsSrgb8() bool {
	return f == FormatR8G8B8A8Srgb || f == FormatB8G8R8A8Srgb
}

// ColorSpace is a presentation colour space.
type ColorSpace uint32

// ColorSpaceSrgbNonlinear is the standard non-linear sRGB colour space.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// ImageLayout is the layout an image is in at a point of the command stream.
type ImageLayout uint32

// Image layouts.
const (
	ImageLayoutUndefined                     ImageLayout = 0
	ImageLayoutGeneral                       ImageLayout = 1
	ImageLayoutColorAttachmentOptimal        ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal   ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal         ImageLayout = 5
	ImageLayoutTransferSrcOptimal            ImageLayout = 6
	ImageLayoutTransferDstOptimal            ImageLayout = 7
	ImageLayoutPresentSrc                    ImageLayout = 1000001002
)

func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "UNDEFINED"
	case ImageLayoutGeneral:
		return "GENERAL"
	case ImageLayoutColorAttachmentOptimal:
		return "COLOR_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilAttachmentOptimal:
		return "DEPTH_STENCIL_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilReadOnlyOptimal:
		return "DEPTH_STENCIL_READ_ONLY_OPTIMAL"
	case ImageLayoutShaderReadOnlyOptimal:
		return "SHADER_READ_ONLY_OPTIMAL"
	case ImageLayoutTransferSrcOptimal:
		return "TRANSFER_SRC_OPTIMAL"
	case ImageLayoutTransferDstOptimal:
		return "TRANSFER_DST_OPTIMAL"
	case ImageLayoutPresentSrc:
		return "PRESENT_SRC"
	default:
		return "UNKNOWN"
	}
}

// PhysicalDeviceType classifies a GPU.
type PhysicalDeviceType uint32

// Physical device types.
const (
	PhysicalDeviceTypeOther PhysicalDeviceType = iota
	PhysicalDeviceTypeIntegrated
	PhysicalDeviceTypeDiscrete
	PhysicalDeviceTypeVirtual
	PhysicalDeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case PhysicalDeviceTypeIntegrated:
		return "integrated"
	case PhysicalDeviceTypeDiscrete:
		return "discrete"
	case PhysicalDeviceTypeVirtual:
		return "virtual"
	case PhysicalDeviceTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// MarshalText encodes the type by name.
func (t PhysicalDeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MemoryPropertyFlags are properties of a memory type.
type MemoryPropertyFlags uint32

// Memory properties.
const (
	MemoryDeviceLocal  MemoryPropertyFlags = 0x1
	MemoryHostVisible  MemoryPropertyFlags = 0x2
	MemoryHostCoherent MemoryPropertyFlags = 0x4
	MemoryHostCached   MemoryPropertyFlags = 0x8
)

// BufferUsageFlags say what a buffer is used for.
type BufferUsageFlags uint32

// Buffer usages.
const (
	BufferUsageTransferSrc   BufferUsageFlags = 0x1
	BufferUsageTransferDst   BufferUsageFlags = 0x2
	BufferUsageUniformBuffer BufferUsageFlags = 0x10
	BufferUsageIndexBuffer   BufferUsageFlags = 0x40
	BufferUsageVertexBuffer  BufferUsageFlags = 0x80
)

// ImageUsageFlags say what an image is used for.
type ImageUsageFlags uint32

// Image usages.
const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x1
	ImageUsageTransferDst            ImageUsageFlags = 0x2
	ImageUsageSampled                ImageUsageFlags = 0x4
	ImageUsageColorAttachment        ImageUsageFlags = 0x10
	ImageUsageDepthStencilAttachment ImageUsageFlags = 0x20
)

// ImageAspectFlags select the aspects of an image.
type ImageAspectFlags uint32

// Image aspects.
const (
	ImageAspectColor ImageAspectFlags = 0x1
	ImageAspectDepth ImageAspectFlags = 0x2
)

// PipelineStageFlags name pipeline stages.
type PipelineStageFlags uint32

// Pipeline stages.
const (
	StageTopOfPipe             PipelineStageFlags = 0x1
	StageVertexShader          PipelineStageFlags = 0x8
	StageFragmentShader        PipelineStageFlags = 0x80
	StageEarlyFragmentTests    PipelineStageFlags = 0x100
	StageLateFragmentTests     PipelineStageFlags = 0x200
	StageColorAttachmentOutput PipelineStageFlags = 0x400
	StageTransfer              PipelineStageFlags = 0x1000
	StageBottomOfPipe          PipelineStageFlags = 0x2000
)

// AccessFlags name memory accesses.
type AccessFlags uint32

// Memory accesses.
const (
	AccessShaderRead                  AccessFlags = 0x20
	AccessColorAttachmentWrite        AccessFlags = 0x100
	AccessDepthStencilAttachmentRead  AccessFlags = 0x200
	AccessDepthStencilAttachmentWrite AccessFlags = 0x400
	AccessTransferWrite               AccessFlags = 0x1000
)

// ShaderStageFlags name shader stages.
type ShaderStageFlags uint32

// Shader stages.
const (
	ShaderStageVertex   ShaderStageFlags = 0x1
	ShaderStageFragment ShaderStageFlags = 0x10
)

// CullMode selects which faces are culled.
type CullMode uint32

// Cull modes.
const (
	CullNone  CullMode = 0
	CullFront CullMode = 1
	CullBack  CullMode = 2
)

// Filter is a sampler filter.
type Filter uint32

// Filters.
const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

// AddressMode is a sampler addressing mode.
type AddressMode uint32

// Address modes.
const (
	AddressRepeat      AddressMode = 0
	AddressClampToEdge AddressMode = 2
)

// DescriptorType is the kind of a descriptor binding.
type DescriptorType uint32

// Descriptor types.
const (
	DescriptorCombinedImageSampler DescriptorType = 1
	DescriptorUniformBuffer        DescriptorType = 6
)

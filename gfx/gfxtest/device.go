// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfxtest provides a recording gfx.Device for tests.
//
// The fake completes GPU work when a fence is waited on or the device
// goes idle. It records every call and collects protocol violations
// such as resetting a command buffer whose submission has not finished.
package gfxtest

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/devblok/umbra/gfx"
)

// Object is a fake handle.
type Object struct {
	Kind string
	ID   int
}

func (o Object) String() string {
	return fmt.Sprintf("%s#%d", o.Kind, o.ID)
}

// Call is one recorded device call.
type Call struct {
	Name string
	Args []interface{}
}

// Device is a scriptable, recording gfx.Device.
type Device struct {
	Caps    gfx.SurfaceCapabilities
	Formats []gfx.SurfaceFormat
	Memory  gfx.MemoryProperties

	// ImageCount returns how many images a swapchain gets for a
	// requested count. Nil grants the request.
	ImageCount func(requested uint32) uint32

	// AcquireHook is called with the 1-based acquire number and may
	// return gfx.ErrOutOfDate or gfx.ErrSuboptimal.
	AcquireHook func(n int) error

	// PresentHook is the same for presentation.
	PresentHook func(n int) error

	// FailOn makes the named call return the error.
	FailOn map[string]error

	mu         sync.Mutex
	next       int
	calls      []Call
	live       map[Object]string
	memory     map[Object][]byte
	fences     map[Object]bool
	pending    map[Object]Object
	images     map[Object][]gfx.Handle
	acquires   int
	presents   int
	violations []string
	destroyed  bool
}

// NewDevice returns a device with a 1280x720 surface, two sRGB capable
// formats and a host visible plus a device local memory type.
func NewDevice() *Device {
	return &Device{
		Caps: gfx.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  gfx.Extent2D{Width: 1280, Height: 720},
			MinImageExtent: gfx.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: gfx.Extent2D{Width: 4096, Height: 4096},
		},
		Formats: []gfx.SurfaceFormat{
			{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear},
			{Format: gfx.FormatB8G8R8A8Srgb, ColorSpace: gfx.ColorSpaceSrgbNonlinear},
		},
		Memory: gfx.MemoryProperties{
			Types: []gfx.MemoryType{
				{PropertyFlags: gfx.MemoryHostVisible | gfx.MemoryHostCoherent, HeapIndex: 1},
				{PropertyFlags: gfx.MemoryDeviceLocal, HeapIndex: 0},
			},
			HeapSizes: []uint64{1 << 30, 1 << 30},
		},
		live:    make(map[Object]string),
		memory:  make(map[Object][]byte),
		fences:  make(map[Object]bool),
		pending: make(map[Object]Object),
		images:  make(map[Object][]gfx.Handle),
	}
}

// SetExtent changes the current surface extent as a window resize would.
func (d *Device) SetExtent(width, height uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Caps.CurrentExtent = gfx.Extent2D{Width: width, Height: height}
}

// Calls returns a copy of all recorded calls.
func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Named returns the recorded calls with the given names, in order.
func (d *Device) Named(names ...string) []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Call
	for _, c := range d.calls {
		for _, n := range names {
			if c.Name == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Count returns how many times name was called.
func (d *Device) Count(name string) int {
	return len(d.Named(name))
}

// ResetCalls forgets the recorded calls.
func (d *Device) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// Live returns the number of live objects of a kind, or of all kinds if kind is empty.
func (d *Device) Live(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for o := range d.live {
		if kind == "" || o.Kind == kind {
			n++
		}
	}
	return n
}

// Leaks lists the objects still alive.
func (d *Device) Leaks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.leaks()
}

func (d *Device) leaks() []string {
	var out []string
	for o := range d.live {
		out = append(out, o.String())
	}
	sort.Strings(out)
	return out
}

// Violations returns the protocol violations seen so far.
func (d *Device) Violations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.violations...)
}

// Destroyed reports whether Destroy was called.
func (d *Device) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

// PushIndex decodes the object index of a recorded CmdPushConstants call.
func PushIndex(c Call) uint32 {
	data := c.Args[3].([]byte)
	return binary.LittleEndian.Uint32(data)
}

func (d *Device) record(name string, args ...interface{}) {
	d.calls = append(d.calls, Call{Name: name, Args: args})
}

func (d *Device) violate(format string, args ...interface{}) {
	d.violations = append(d.violations, fmt.Sprintf(format, args...))
}

func (d *Device) fail(name string) error {
	if err, ok := d.FailOn[name]; ok {
		return err
	}
	return nil
}

func (d *Device) create(kind, name string, args ...interface{}) (Object, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(name, args...)
	if err := d.fail(name); err != nil {
		return Object{}, err
	}
	d.next++
	o := Object{Kind: kind, ID: d.next}
	d.live[o] = name
	return o, nil
}

func (d *Device) destroy(name string, h gfx.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(name, h)
	if h == nil {
		return
	}
	o, ok := h.(Object)
	if !ok {
		d.violate("%s: foreign handle %v", name, h)
		return
	}
	if _, ok := d.live[o]; !ok {
		d.violate("%s: %s is not alive", name, o)
		return
	}
	delete(d.live, o)
}

func (d *Device) cmd(name string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(name, args...)
}

// MemoryProperties implements gfx.ResourceDevice.
func (d *Device) MemoryProperties() gfx.MemoryProperties {
	return d.Memory
}

func (d *Device) typeBits() uint32 {
	return uint32(1)<<uint(len(d.Memory.Types)) - 1
}

// CreateBuffer implements gfx.ResourceDevice.
func (d *Device) CreateBuffer(info gfx.BufferInfo) (gfx.Handle, gfx.MemoryRequirements, error) {
	o, err := d.create("buffer", "CreateBuffer", info)
	if err != nil {
		return nil, gfx.MemoryRequirements{}, err
	}
	return o, gfx.MemoryRequirements{Size: info.Size, Alignment: 16, TypeBits: d.typeBits()}, nil
}

// DestroyBuffer implements gfx.ResourceDevice.
func (d *Device) DestroyBuffer(h gfx.Handle) { d.destroy("DestroyBuffer", h) }

// CreateImage implements gfx.ResourceDevice.
func (d *Device) CreateImage(info gfx.ImageInfo) (gfx.Handle, gfx.MemoryRequirements, error) {
	o, err := d.create("image", "CreateImage", info)
	if err != nil {
		return nil, gfx.MemoryRequirements{}, err
	}
	size := uint64(info.Extent.Width) * uint64(info.Extent.Height) * 4
	return o, gfx.MemoryRequirements{Size: size, Alignment: 256, TypeBits: d.typeBits()}, nil
}

// DestroyImage implements gfx.ResourceDevice.
func (d *Device) DestroyImage(h gfx.Handle) { d.destroy("DestroyImage", h) }

// AllocateMemory implements gfx.ResourceDevice.
func (d *Device) AllocateMemory(size uint64, typeIndex uint32) (gfx.Handle, error) {
	o, err := d.create("memory", "AllocateMemory", size, typeIndex)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.memory[o] = make([]byte, size)
	d.mu.Unlock()
	return o, nil
}

// FreeMemory implements gfx.ResourceDevice.
func (d *Device) FreeMemory(h gfx.Handle) {
	d.destroy("FreeMemory", h)
	d.mu.Lock()
	o, _ := h.(Object)
	delete(d.memory, o)
	d.mu.Unlock()
}

// BindBufferMemory implements gfx.ResourceDevice.
func (d *Device) BindBufferMemory(buffer, memory gfx.Handle) error {
	d.cmd("BindBufferMemory", buffer, memory)
	return d.fail("BindBufferMemory")
}

// BindImageMemory implements gfx.ResourceDevice.
func (d *Device) BindImageMemory(image, memory gfx.Handle) error {
	d.cmd("BindImageMemory", image, memory)
	return d.fail("BindImageMemory")
}

// MapMemory implements gfx.ResourceDevice.
func (d *Device) MapMemory(memory gfx.Handle, size uint64) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("MapMemory", memory, size)
	if err := d.fail("MapMemory"); err != nil {
		return nil, err
	}
	data, ok := d.memory[memory.(Object)]
	if !ok {
		return nil, fmt.Errorf("map %v: not allocated", memory)
	}
	if size > uint64(len(data)) {
		return nil, fmt.Errorf("map %v: %d bytes out of %d", memory, size, len(data))
	}
	return data[:size], nil
}

// UnmapMemory implements gfx.ResourceDevice.
func (d *Device) UnmapMemory(h gfx.Handle) { d.cmd("UnmapMemory", h) }

// Contents returns the backing bytes of a memory object.
func (d *Device) Contents(memory gfx.Handle) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.memory[memory.(Object)]
}

// CreateImageView implements gfx.ResourceDevice.
func (d *Device) CreateImageView(info gfx.ImageViewInfo) (gfx.Handle, error) {
	o, err := d.create("view", "CreateImageView", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyImageView implements gfx.ResourceDevice.
func (d *Device) DestroyImageView(h gfx.Handle) { d.destroy("DestroyImageView", h) }

// CreateSampler implements gfx.ResourceDevice.
func (d *Device) CreateSampler(info gfx.SamplerInfo) (gfx.Handle, error) {
	o, err := d.create("sampler", "CreateSampler", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroySampler implements gfx.ResourceDevice.
func (d *Device) DestroySampler(h gfx.Handle) { d.destroy("DestroySampler", h) }

// SurfaceCapabilities implements gfx.PresentationDevice.
func (d *Device) SurfaceCapabilities() (gfx.SurfaceCapabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SurfaceCapabilities")
	return d.Caps, d.fail("SurfaceCapabilities")
}

// SurfaceFormats implements gfx.PresentationDevice.
func (d *Device) SurfaceFormats() ([]gfx.SurfaceFormat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SurfaceFormats")
	return append([]gfx.SurfaceFormat(nil), d.Formats...), d.fail("SurfaceFormats")
}

// CreateSwapchain implements gfx.PresentationDevice.
func (d *Device) CreateSwapchain(info gfx.SwapchainInfo) (gfx.Handle, error) {
	o, err := d.create("swapchain", "CreateSwapchain", info)
	if err != nil {
		return nil, err
	}
	count := info.ImageCount
	if d.ImageCount != nil {
		count = d.ImageCount(count)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	images := make([]gfx.Handle, count)
	for i := range images {
		d.next++
		images[i] = Object{Kind: "swapchain-image", ID: d.next}
	}
	d.images[o] = images
	return o, nil
}

// SwapchainImages implements gfx.PresentationDevice.
func (d *Device) SwapchainImages(h gfx.Handle) ([]gfx.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SwapchainImages", h)
	return append([]gfx.Handle(nil), d.images[h.(Object)]...), d.fail("SwapchainImages")
}

// DestroySwapchain implements gfx.PresentationDevice.
func (d *Device) DestroySwapchain(h gfx.Handle) {
	d.destroy("DestroySwapchain", h)
	d.mu.Lock()
	o, _ := h.(Object)
	delete(d.images, o)
	d.mu.Unlock()
}

// AcquireNextImage implements gfx.PresentationDevice. Images are
// handed out round robin.
func (d *Device) AcquireNextImage(swapchain, semaphore gfx.Handle) (uint32, error) {
	d.mu.Lock()
	d.acquires++
	n := d.acquires
	d.record("AcquireNextImage", swapchain, semaphore)
	images := len(d.images[swapchain.(Object)])
	d.mu.Unlock()

	if images == 0 {
		return 0, fmt.Errorf("acquire from %v: no images", swapchain)
	}
	idx := uint32((n - 1) % images)
	if d.AcquireHook != nil {
		if err := d.AcquireHook(n); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// Present implements gfx.PresentationDevice.
func (d *Device) Present(info gfx.PresentInfo) error {
	d.mu.Lock()
	d.presents++
	n := d.presents
	d.record("Present", info)
	d.mu.Unlock()
	if d.PresentHook != nil {
		return d.PresentHook(n)
	}
	return nil
}

// CreateRenderPass implements gfx.PipelineDevice.
func (d *Device) CreateRenderPass(info gfx.RenderPassInfo) (gfx.Handle, error) {
	o, err := d.create("renderpass", "CreateRenderPass", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyRenderPass implements gfx.PipelineDevice.
func (d *Device) DestroyRenderPass(h gfx.Handle) { d.destroy("DestroyRenderPass", h) }

// CreateFramebuffer implements gfx.PipelineDevice.
func (d *Device) CreateFramebuffer(info gfx.FramebufferInfo) (gfx.Handle, error) {
	o, err := d.create("framebuffer", "CreateFramebuffer", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyFramebuffer implements gfx.PipelineDevice.
func (d *Device) DestroyFramebuffer(h gfx.Handle) { d.destroy("DestroyFramebuffer", h) }

// CreateShaderModule implements gfx.PipelineDevice.
func (d *Device) CreateShaderModule(code []uint32) (gfx.Handle, error) {
	o, err := d.create("shader", "CreateShaderModule", len(code))
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyShaderModule implements gfx.PipelineDevice.
func (d *Device) DestroyShaderModule(h gfx.Handle) { d.destroy("DestroyShaderModule", h) }

// CreateDescriptorSetLayout implements gfx.PipelineDevice.
func (d *Device) CreateDescriptorSetLayout(bindings []gfx.DescriptorBinding) (gfx.Handle, error) {
	o, err := d.create("set-layout", "CreateDescriptorSetLayout", bindings)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyDescriptorSetLayout implements gfx.PipelineDevice.
func (d *Device) DestroyDescriptorSetLayout(h gfx.Handle) {
	d.destroy("DestroyDescriptorSetLayout", h)
}

// CreateDescriptorPool implements gfx.PipelineDevice.
func (d *Device) CreateDescriptorPool(info gfx.DescriptorPoolInfo) (gfx.Handle, error) {
	o, err := d.create("descriptor-pool", "CreateDescriptorPool", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyDescriptorPool implements gfx.PipelineDevice.
func (d *Device) DestroyDescriptorPool(h gfx.Handle) { d.destroy("DestroyDescriptorPool", h) }

// AllocateDescriptorSet implements gfx.PipelineDevice. Sets are
// freed with their pool and are not tracked as live objects.
func (d *Device) AllocateDescriptorSet(pool, layout gfx.Handle) (gfx.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("AllocateDescriptorSet", pool, layout)
	if err := d.fail("AllocateDescriptorSet"); err != nil {
		return nil, err
	}
	d.next++
	return Object{Kind: "descriptor-set", ID: d.next}, nil
}

// UpdateDescriptorSet implements gfx.PipelineDevice.
func (d *Device) UpdateDescriptorSet(set gfx.Handle, writes ...gfx.DescriptorWrite) {
	d.cmd("UpdateDescriptorSet", set, writes)
}

// CreatePipelineLayout implements gfx.PipelineDevice.
func (d *Device) CreatePipelineLayout(info gfx.PipelineLayoutInfo) (gfx.Handle, error) {
	o, err := d.create("pipeline-layout", "CreatePipelineLayout", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyPipelineLayout implements gfx.PipelineDevice.
func (d *Device) DestroyPipelineLayout(h gfx.Handle) { d.destroy("DestroyPipelineLayout", h) }

// CreateGraphicsPipeline implements gfx.PipelineDevice.
func (d *Device) CreateGraphicsPipeline(info gfx.PipelineInfo) (gfx.Handle, error) {
	o, err := d.create("pipeline", "CreateGraphicsPipeline", info)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyPipeline implements gfx.PipelineDevice.
func (d *Device) DestroyPipeline(h gfx.Handle) { d.destroy("DestroyPipeline", h) }

// CreateSemaphore implements gfx.SyncDevice.
func (d *Device) CreateSemaphore() (gfx.Handle, error) {
	o, err := d.create("semaphore", "CreateSemaphore")
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroySemaphore implements gfx.SyncDevice.
func (d *Device) DestroySemaphore(h gfx.Handle) { d.destroy("DestroySemaphore", h) }

// CreateFence implements gfx.SyncDevice.
func (d *Device) CreateFence(signaled bool) (gfx.Handle, error) {
	o, err := d.create("fence", "CreateFence", signaled)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.fences[o] = signaled
	d.mu.Unlock()
	return o, nil
}

// DestroyFence implements gfx.SyncDevice.
func (d *Device) DestroyFence(h gfx.Handle) {
	d.destroy("DestroyFence", h)
	d.mu.Lock()
	o, _ := h.(Object)
	delete(d.fences, o)
	d.mu.Unlock()
}

// WaitForFence implements gfx.SyncDevice. Any work the fence guards
// completes at this point.
func (d *Device) WaitForFence(fence gfx.Handle, timeout uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("WaitForFence", fence, timeout)
	if err := d.fail("WaitForFence"); err != nil {
		return err
	}
	f := fence.(Object)
	d.fences[f] = true
	for cmd, pf := range d.pending {
		if pf == f {
			delete(d.pending, cmd)
		}
	}
	return nil
}

// ResetFence implements gfx.SyncDevice.
func (d *Device) ResetFence(fence gfx.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ResetFence", fence)
	f := fence.(Object)
	if !d.fences[f] {
		d.violate("ResetFence: %s reset while unsignaled", f)
	}
	d.fences[f] = false
	return d.fail("ResetFence")
}

// Signaled reports the state of a fence.
func (d *Device) Signaled(fence gfx.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fences[fence.(Object)]
}

// CreateCommandPool implements gfx.CommandDevice.
func (d *Device) CreateCommandPool() (gfx.Handle, error) {
	o, err := d.create("command-pool", "CreateCommandPool")
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DestroyCommandPool implements gfx.CommandDevice.
func (d *Device) DestroyCommandPool(h gfx.Handle) { d.destroy("DestroyCommandPool", h) }

// AllocateCommandBuffer implements gfx.CommandDevice.
func (d *Device) AllocateCommandBuffer(pool gfx.Handle) (gfx.Handle, error) {
	o, err := d.create("command-buffer", "AllocateCommandBuffer", pool)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// FreeCommandBuffer implements gfx.CommandDevice.
func (d *Device) FreeCommandBuffer(pool, cmd gfx.Handle) { d.destroy("FreeCommandBuffer", cmd) }

func (d *Device) checkIdle(name string, cmd gfx.Handle) {
	if f, ok := d.pending[cmd.(Object)]; ok {
		d.violate("%s: %v still in flight behind %s", name, cmd, f)
	}
}

// ResetCommandBuffer implements gfx.CommandDevice.
func (d *Device) ResetCommandBuffer(cmd gfx.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ResetCommandBuffer", cmd)
	d.checkIdle("ResetCommandBuffer", cmd)
	return d.fail("ResetCommandBuffer")
}

// BeginCommandBuffer implements gfx.CommandDevice.
func (d *Device) BeginCommandBuffer(cmd gfx.Handle, oneTime bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BeginCommandBuffer", cmd, oneTime)
	d.checkIdle("BeginCommandBuffer", cmd)
	return d.fail("BeginCommandBuffer")
}

// EndCommandBuffer implements gfx.CommandDevice.
func (d *Device) EndCommandBuffer(cmd gfx.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("EndCommandBuffer", cmd)
	return d.fail("EndCommandBuffer")
}

// Submit implements gfx.CommandDevice. Work without a fence completes
// when the queue or device goes idle.
func (d *Device) Submit(info gfx.SubmitInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Submit", info)
	if err := d.fail("Submit"); err != nil {
		return err
	}
	cmd := info.CommandBuffer.(Object)
	if info.Fence == nil {
		d.pending[cmd] = Object{}
		return nil
	}
	f := info.Fence.(Object)
	if d.fences[f] {
		d.violate("Submit: %s already signaled", f)
	}
	d.pending[cmd] = f
	return nil
}

// QueueWaitIdle implements gfx.CommandDevice.
func (d *Device) QueueWaitIdle() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("QueueWaitIdle")
	d.complete()
	return d.fail("QueueWaitIdle")
}

// WaitIdle implements gfx.Device.
func (d *Device) WaitIdle() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("WaitIdle")
	d.complete()
	return d.fail("WaitIdle")
}

func (d *Device) complete() {
	for cmd, f := range d.pending {
		if f != (Object{}) {
			d.fences[f] = true
		}
		delete(d.pending, cmd)
	}
}

// Destroy implements gfx.Device. Objects still alive are reported as violations.
func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Destroy")
	if leaks := d.leaks(); len(leaks) > 0 {
		d.violate("Destroy: leaked %v", leaks)
	}
	d.destroyed = true
}

// CmdBeginRenderPass implements gfx.Recorder.
func (d *Device) CmdBeginRenderPass(cmd gfx.Handle, begin gfx.RenderPassBegin) {
	d.cmd("CmdBeginRenderPass", cmd, begin)
}

// CmdEndRenderPass implements gfx.Recorder.
func (d *Device) CmdEndRenderPass(cmd gfx.Handle) { d.cmd("CmdEndRenderPass", cmd) }

// CmdBindPipeline implements gfx.Recorder.
func (d *Device) CmdBindPipeline(cmd, pipeline gfx.Handle) {
	d.cmd("CmdBindPipeline", cmd, pipeline)
}

// CmdSetViewport implements gfx.Recorder.
func (d *Device) CmdSetViewport(cmd gfx.Handle, viewport gfx.Viewport) {
	d.cmd("CmdSetViewport", cmd, viewport)
}

// CmdSetScissor implements gfx.Recorder.
func (d *Device) CmdSetScissor(cmd gfx.Handle, extent gfx.Extent2D) {
	d.cmd("CmdSetScissor", cmd, extent)
}

// CmdBindVertexBuffer implements gfx.Recorder.
func (d *Device) CmdBindVertexBuffer(cmd, buffer gfx.Handle) {
	d.cmd("CmdBindVertexBuffer", cmd, buffer)
}

// CmdBindIndexBuffer implements gfx.Recorder.
func (d *Device) CmdBindIndexBuffer(cmd, buffer gfx.Handle) {
	d.cmd("CmdBindIndexBuffer", cmd, buffer)
}

// CmdBindDescriptorSets implements gfx.Recorder.
func (d *Device) CmdBindDescriptorSets(cmd, layout gfx.Handle, firstSet uint32, sets ...gfx.Handle) {
	d.cmd("CmdBindDescriptorSets", cmd, layout, firstSet, sets)
}

// CmdPushConstants implements gfx.Recorder.
func (d *Device) CmdPushConstants(cmd, layout gfx.Handle, stages gfx.ShaderStageFlags, data []byte) {
	d.cmd("CmdPushConstants", cmd, layout, stages, append([]byte(nil), data...))
}

// CmdDrawIndexed implements gfx.Recorder.
func (d *Device) CmdDrawIndexed(cmd gfx.Handle, indexCount uint32) {
	d.cmd("CmdDrawIndexed", cmd, indexCount)
}

// CmdPipelineBarrier implements gfx.Recorder.
func (d *Device) CmdPipelineBarrier(cmd gfx.Handle, barrier gfx.ImageBarrier) {
	d.cmd("CmdPipelineBarrier", cmd, barrier)
}

// CmdCopyBuffer implements gfx.Recorder.
func (d *Device) CmdCopyBuffer(cmd, src, dst gfx.Handle, size uint64) {
	d.cmd("CmdCopyBuffer", cmd, src, dst, size)
}

// CmdCopyBufferToImage implements gfx.Recorder.
func (d *Device) CmdCopyBufferToImage(cmd, src, dst gfx.Handle, extent gfx.Extent2D) {
	d.cmd("CmdCopyBufferToImage", cmd, src, dst, extent)
}

var _ gfx.Device = (*Device)(nil)

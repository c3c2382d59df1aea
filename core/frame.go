// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/devblok/umbra/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// FrameStatus is the outcome of FrameSync.Begin.
type FrameStatus int

// Frame statuses.
const (
	// FrameReady means the command buffer is recording and the frame
	// must be finished with End.
	FrameReady FrameStatus = iota

	// FrameSkipped means the swapchain was recreated and nothing was
	// recorded. End must not be called.
	FrameSkipped
)

func (s FrameStatus) String() string {
	switch s {
	case FrameReady:
		return "ready"
	case FrameSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("FrameStatus(%d)", int(s))
	}
}

// NewFrameSync creates the synchronisation slot of the single frame in
// flight: one command buffer, two semaphores and a fence created signaled.
func NewFrameSync(ctx *Context, pool *CommandPool, swapchain *Swapchain) (*FrameSync, error) {
	f := &FrameSync{
		device:    ctx.Device,
		log:       ctx.logger("frame"),
		pool:      pool,
		swapchain: swapchain,
	}

	var err error
	if f.cmd, err = pool.Allocate(); err != nil {
		return nil, err
	}
	if f.imageAcquired, err = ctx.Device.CreateSemaphore(); err != nil {
		f.Release()
		return nil, err
	}
	if f.renderComplete, err = ctx.Device.CreateSemaphore(); err != nil {
		f.Release()
		return nil, err
	}
	if f.fence, err = ctx.Device.CreateFence(true); err != nil {
		f.Release()
		return nil, err
	}
	return f, nil
}

// FrameSync drives acquire, record, submit and present for one frame
// at a time.
type FrameSync struct {
	device    gfx.Device
	log       *log.Entry
	pool      *CommandPool
	swapchain *Swapchain

	cmd            gfx.Handle
	imageAcquired  gfx.Handle
	renderComplete gfx.Handle
	fence          gfx.Handle

	image     uint32
	recording bool
}

// CommandBuffer returns the command buffer of the slot.
func (f *FrameSync) CommandBuffer() gfx.Handle {
	return f.cmd
}

// Image returns the index of the acquired swapchain image.
func (f *FrameSync) Image() uint32 {
	return f.image
}

// Begin waits for the previous frame, acquires the next image and starts
// recording. The global set is bound and the uniforms written before it
// returns. A stale swapchain is recreated and FrameSkipped returned.
func (f *FrameSync) Begin(layout, globalSet gfx.Handle, uniforms *Uniforms, frame FrameUniforms, models []glm.Mat4) (FrameStatus, error) {
	if f.recording {
		return FrameSkipped, errors.New("frame already begun")
	}

	if err := f.device.WaitForFence(f.fence, math.MaxUint64); err != nil {
		return FrameSkipped, err
	}

	image, err := f.device.AcquireNextImage(f.swapchain.Handle(), f.imageAcquired)
	if gfx.IsRecoverable(err) {
		return FrameSkipped, f.skip(err)
	}
	if err != nil {
		return FrameSkipped, err
	}
	f.image = image

	if err := f.device.ResetCommandBuffer(f.cmd); err != nil {
		return FrameSkipped, err
	}
	if err := f.device.BeginCommandBuffer(f.cmd, false); err != nil {
		return FrameSkipped, err
	}
	f.recording = true

	f.device.CmdBindDescriptorSets(f.cmd, layout, GlobalSet, globalSet)
	if err := uniforms.Write(frame, models); err != nil {
		if derr := f.Discard(err); derr != nil {
			return FrameSkipped, derr
		}
		return FrameSkipped, err
	}
	return FrameReady, nil
}

// Discard abandons a frame that failed while recording. Nothing is
// submitted and the fence stays signaled. The swapchain is recreated to
// take back the acquired image, and the acquire semaphore renewed since
// nothing will wait on it.
func (f *FrameSync) Discard(reason error) error {
	if !f.recording {
		return nil
	}
	f.recording = false
	f.log.WithError(reason).Warn("frame discarded")

	if err := f.device.EndCommandBuffer(f.cmd); err != nil {
		return err
	}
	if err := f.renewImageAcquired(); err != nil {
		return err
	}
	f.swapchain.invalidate()
	_, err := f.swapchain.Recreate()
	return err
}

// skip recreates the swapchain after an acquire that reported it stale.
func (f *FrameSync) skip(reason error) error {
	f.log.WithError(reason).Debug("frame skipped")
	f.swapchain.invalidate()
	if _, err := f.swapchain.Recreate(); err != nil {
		return err
	}
	if errors.Is(reason, gfx.ErrSuboptimal) {
		// The acquire still signaled the semaphore and nothing will wait on it.
		return f.renewImageAcquired()
	}
	return nil
}

func (f *FrameSync) renewImageAcquired() error {
	f.device.DestroySemaphore(f.imageAcquired)
	sem, err := f.device.CreateSemaphore()
	if err != nil {
		f.imageAcquired = nil
		return err
	}
	f.imageAcquired = sem
	return nil
}

// End finishes recording, submits the command buffer and presents the
// image. A stale swapchain reported by presentation is recreated.
func (f *FrameSync) End() error {
	if !f.recording {
		return errors.New("frame not begun")
	}
	f.recording = false

	if err := f.device.EndCommandBuffer(f.cmd); err != nil {
		return err
	}
	// Reset only once the submit that signals it again is certain.
	if err := f.device.ResetFence(f.fence); err != nil {
		return err
	}
	if err := f.device.Submit(gfx.SubmitInfo{
		CommandBuffer: f.cmd,
		Wait:          f.imageAcquired,
		WaitStage:     gfx.StageColorAttachmentOutput,
		Signal:        f.renderComplete,
		Fence:         f.fence,
	}); err != nil {
		return err
	}

	err := f.device.Present(gfx.PresentInfo{
		Swapchain:  f.swapchain.Handle(),
		ImageIndex: f.image,
		Wait:       f.renderComplete,
	})
	if gfx.IsRecoverable(err) {
		f.log.WithError(err).Warn("present reported a stale swapchain")
		f.swapchain.invalidate()
		_, err = f.swapchain.Recreate()
	}
	return err
}

// Release destroys the slot. The device must be idle.
func (f *FrameSync) Release() {
	if f.cmd != nil {
		f.pool.Free(f.cmd)
		f.cmd = nil
	}
	for _, s := range []*gfx.Handle{&f.imageAcquired, &f.renderComplete} {
		if *s != nil {
			f.device.DestroySemaphore(*s)
			*s = nil
		}
	}
	if f.fence != nil {
		f.device.DestroyFence(f.fence)
		f.fence = nil
	}
}

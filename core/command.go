// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/umbra/gfx"
)

// NewCommandPool creates a pool on the graphics queue family.
func NewCommandPool(ctx *Context) (*CommandPool, error) {
	pool, err := ctx.Device.CreateCommandPool()
	if err != nil {
		return nil, err
	}
	return &CommandPool{device: ctx.Device, pool: pool}, nil
}

// CommandPool allocates command buffers.
type CommandPool struct {
	device gfx.Device
	pool   gfx.Handle
}

// Allocate returns a new primary command buffer.
func (p *CommandPool) Allocate() (gfx.Handle, error) {
	return p.device.AllocateCommandBuffer(p.pool)
}

// Free returns a command buffer to the pool.
func (p *CommandPool) Free(cmd gfx.Handle) {
	p.device.FreeCommandBuffer(p.pool, cmd)
}

// SingleTime records commands into a one time buffer, submits it and
// waits for the graphics queue to finish.
func (p *CommandPool) SingleTime(record func(cmd gfx.Handle) error) error {
	cmd, err := p.Allocate()
	if err != nil {
		return err
	}
	defer p.Free(cmd)

	if err := p.device.BeginCommandBuffer(cmd, true); err != nil {
		return err
	}
	if err := record(cmd); err != nil {
		return err
	}
	if err := p.device.EndCommandBuffer(cmd); err != nil {
		return err
	}
	if err := p.device.Submit(gfx.SubmitInfo{CommandBuffer: cmd}); err != nil {
		return err
	}
	return p.device.QueueWaitIdle()
}

// Release destroys the pool.
func (p *CommandPool) Release() {
	if p.pool != nil {
		p.device.DestroyCommandPool(p.pool)
		p.pool = nil
	}
}

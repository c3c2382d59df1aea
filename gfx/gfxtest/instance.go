// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfxtest

import (
	"errors"
	"unsafe"

	"github.com/devblok/umbra/gfx"
)

// Window is a fake platform window.
type Window struct {
	Surfaces int
}

// VulkanCreateSurface implements gfx.Window.
func (w *Window) VulkanCreateSurface(instance interface{}) (unsafe.Pointer, error) {
	w.Surfaces++
	return nil, nil
}

// Instance is a fake gfx.Instance handing out a single Device.
type Instance struct {
	Devices  []gfx.PhysicalDevice
	Families []gfx.QueueFamily
	Device   *Device

	// Created is the info the device was created with.
	Created   gfx.DeviceInfo
	Surface   bool
	Destroyed bool
}

// NewInstance returns an instance with an integrated and a discrete GPU
// and one family that does graphics and presentation.
func NewInstance() *Instance {
	dev := NewDevice()
	return &Instance{
		Devices: []gfx.PhysicalDevice{
			{Handle: Object{Kind: "gpu", ID: 1}, Name: "Fake Integrated", Type: gfx.PhysicalDeviceTypeIntegrated, Memory: dev.Memory},
			{Handle: Object{Kind: "gpu", ID: 2}, Name: "Fake Discrete", Type: gfx.PhysicalDeviceTypeDiscrete, Memory: dev.Memory},
		},
		Families: []gfx.QueueFamily{
			{Index: 0, Count: 1, Graphics: true, Present: true},
		},
		Device: dev,
	}
}

// PhysicalDevices implements gfx.Instance.
func (i *Instance) PhysicalDevices() ([]gfx.PhysicalDevice, error) {
	return i.Devices, nil
}

// CreateSurface implements gfx.Instance.
func (i *Instance) CreateSurface(w gfx.Window) error {
	if _, err := w.VulkanCreateSurface(i); err != nil {
		return err
	}
	i.Surface = true
	return nil
}

// QueueFamilies implements gfx.Instance.
func (i *Instance) QueueFamilies(gfx.PhysicalDevice) ([]gfx.QueueFamily, error) {
	if !i.Surface {
		return nil, errors.New("queue families queried before the surface exists")
	}
	return i.Families, nil
}

// CreateDevice implements gfx.Instance.
func (i *Instance) CreateDevice(info gfx.DeviceInfo) (gfx.Device, error) {
	i.Created = info
	return i.Device, nil
}

// Inner implements gfx.Instance.
func (i *Instance) Inner() interface{} {
	return i
}

// Destroy implements gfx.Instance.
func (i *Instance) Destroy() {
	i.Destroyed = true
}

var _ gfx.Instance = (*Instance)(nil)

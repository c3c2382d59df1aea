// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/devblok/umbra/gfx"
	vk "github.com/devblok/vulkan"
	log "github.com/sirupsen/logrus"
)

// InstanceConfiguration selects the instance extensions and layers.
type InstanceConfiguration struct {
	Validation bool
	Extensions []string
	Layers     []string
}

// NewInstance creates a Vulkan instance. A nil getProcAddr loads
// the system Vulkan library, otherwise the given loader is used
// (sdl.VulkanGetVkGetInstanceProcAddr for windowed use).
func NewInstance(appInfo *vk.ApplicationInfo, getProcAddr unsafe.Pointer, cfg InstanceConfiguration) (*Instance, error) {
	if cfg.Validation {
		cfg.Layers = append(cfg.Layers, ValidationLayer)
	}

	if getProcAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.InstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(getProcAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.New("vk.InitInstance(): " + err.Error())
	}

	log.WithFields(log.Fields{
		"extensions": cfg.Extensions,
		"layers":     cfg.Layers,
	}).Debug("vulkan instance created")

	return &Instance{
		configuration: cfg,
		instance:      instance,
	}, nil
}

// Instance is a Vulkan API instance with an optional window surface.
type Instance struct {
	configuration InstanceConfiguration

	instance vk.Instance
	surface  vk.Surface
}

func (v *Instance) enumerateDevices() ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): %s", err)
	}
	return availableDevices, nil
}

// PhysicalDevices implements gfx.Instance.
func (v *Instance) PhysicalDevices() ([]gfx.PhysicalDevice, error) {
	available, err := v.enumerateDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]gfx.PhysicalDevice, 0, len(available))
	for _, pd := range available {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		props.Deref()

		devices = append(devices, gfx.PhysicalDevice{
			Handle:   pd,
			Name:     vk.ToString(props.DeviceName[:]),
			Type:     gfx.PhysicalDeviceType(props.DeviceType),
			VendorID: props.VendorID,
			DeviceID: props.DeviceID,
			API:      versionString(props.ApiVersion),
			Memory:   memoryProperties(pd),
		})
	}
	return devices, nil
}

// CreateSurface implements gfx.Instance.
func (v *Instance) CreateSurface(w gfx.Window) error {
	pSurface, err := w.VulkanCreateSurface(v.instance)
	if err != nil {
		return fmt.Errorf("create surface: %s", err)
	}
	v.surface = vk.SurfaceFromPointer(uintptr(pSurface))
	return nil
}

// QueueFamilies implements gfx.Instance.
func (v *Instance) QueueFamilies(device gfx.PhysicalDevice) ([]gfx.QueueFamily, error) {
	pd, ok := device.Handle.(vk.PhysicalDevice)
	if !ok {
		return nil, errors.New("failed to assert physical device to it's original type")
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	families := make([]gfx.QueueFamily, 0, queueFamilyCount)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()

		var supportsPresent vk.Bool32
		if v.surface != vk.NullSurface {
			if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(pd, i, v.surface, &supportsPresent)); err != nil {
				return nil, fmt.Errorf("vk.GetPhysicalDeviceSurfaceSupport(): %s", err)
			}
		}

		families = append(families, gfx.QueueFamily{
			Index:    i,
			Count:    queueFamilies[i].QueueCount,
			Graphics: queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Present:  supportsPresent.B(),
		})
	}
	return families, nil
}

// CreateDevice implements gfx.Instance.
func (v *Instance) CreateDevice(info gfx.DeviceInfo) (gfx.Device, error) {
	pd, ok := info.Physical.Handle.(vk.PhysicalDevice)
	if !ok {
		return nil, errors.New("failed to assert physical device to it's original type")
	}
	if _, ok := info.Queues.Family(gfx.QueueGraphics); !ok {
		return nil, gfx.ErrNoQueueFamily
	}
	if _, ok := info.Queues.Family(gfx.QueuePresent); !ok {
		return nil, gfx.ErrNoQueueFamily
	}

	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range info.Queues.Families() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		})
	}

	extensions := append([]string{vk.KhrSwapchainExtensionName}, info.Extensions...)
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var vkDevice vk.Device
	if err := vk.Error(vk.CreateDevice(pd, &dci, nil, &vkDevice)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	var graphicsQueue, presentQueue vk.Queue
	vk.GetDeviceQueue(vkDevice, info.Queues.Graphics(), 0, &graphicsQueue)
	vk.GetDeviceQueue(vkDevice, info.Queues.Present(), 0, &presentQueue)

	log.WithFields(log.Fields{
		"device":   info.Physical.Name,
		"graphics": info.Queues.Graphics(),
		"present":  info.Queues.Present(),
	}).Info("logical device created")

	return &Device{
		physicalDevice: pd,
		device:         vkDevice,
		surface:        v.surface,
		queues:         info.Queues,
		graphicsQueue:  graphicsQueue,
		presentQueue:   presentQueue,
		memory:         memoryProperties(pd),
	}, nil
}

// Inner implements gfx.Instance.
func (v *Instance) Inner() interface{} {
	return v.instance
}

// Destroy implements gfx.Instance.
func (v *Instance) Destroy() {
	if v.surface != vk.NullSurface {
		vk.DestroySurface(v.instance, v.surface, nil)
		v.surface = vk.NullSurface
	}
	vk.DestroyInstance(v.instance, nil)
}

var _ gfx.Instance = (*Instance)(nil)

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
)

// FindMemoryType returns the first memory type whose bit is set in filter
// and whose properties include every flag of prop.
func FindMemoryType(props gfx.MemoryProperties, filter uint32, prop gfx.MemoryPropertyFlags) (uint32, error) {
	for idx := uint32(0); idx < uint32(len(props.Types)) && idx < 32; idx++ {
		if filter&(1<<idx) != 0 && (props.Types[idx].PropertyFlags&prop) == prop {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("memory type for filter %#x with properties %#x: %w", filter, prop, gfx.ErrNoMemoryType)
}

// NewMemoryAllocator creates a new memory allocator. Allocates for the logical device,
// reads memory properties of the physical device to influence allocation.
func NewMemoryAllocator(device gfx.ResourceDevice) *MemoryAllocator {
	return &MemoryAllocator{
		device:     device,
		properties: device.MemoryProperties(),
	}
}

// MemoryAllocator is responsible returning usable
// memory for any resources that may need it.
type MemoryAllocator struct {
	device     gfx.ResourceDevice
	properties gfx.MemoryProperties
}

// Malloc returns a usable memory chunk ready for use.
func (ma *MemoryAllocator) Malloc(req gfx.MemoryRequirements, prop gfx.MemoryPropertyFlags) (*Memory, error) {
	memTypeIdx, err := FindMemoryType(ma.properties, req.TypeBits, prop)
	if err != nil {
		return nil, err
	}

	memory, err := ma.device.AllocateMemory(req.Size, memTypeIdx)
	if err != nil {
		return nil, err
	}
	return &Memory{
		len:    req.Size,
		device: ma.device,
		memory: memory,
	}, nil
}

// Memory defines a usable memory region.
type Memory struct {
	len    uint64
	device gfx.ResourceDevice
	memory gfx.Handle
	mapped []byte
}

// Len returns the length of assigned memory.
func (m *Memory) Len() uint64 {
	return m.len
}

// Get returns the memory handle.
func (m *Memory) Get() gfx.Handle {
	return m.memory
}

// Map maps the entire memory region. The mapping stays until Unmap
// or Release, repeated calls return the same slice.
func (m *Memory) Map() ([]byte, error) {
	if m.mapped != nil {
		return m.mapped, nil
	}
	mapped, err := m.device.MapMemory(m.memory, m.len)
	if err != nil {
		return nil, err
	}
	m.mapped = mapped
	return mapped, nil
}

// Unmap removes the memory mapping if it was mapped.
func (m *Memory) Unmap() {
	if m.mapped != nil {
		m.device.UnmapMemory(m.memory)
		m.mapped = nil
	}
}

// Release frees memory after unmapping it if previously mapped.
func (m *Memory) Release() {
	if m.memory == nil {
		return
	}
	m.Unmap()
	m.device.FreeMemory(m.memory)
	m.memory = nil
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/umbra/gfx"
)

// SelectPhysicalDevice picks the first discrete GPU, or the first
// device if there is none.
func SelectPhysicalDevice(devices []gfx.PhysicalDevice) (gfx.PhysicalDevice, error) {
	if len(devices) == 0 {
		return gfx.PhysicalDevice{}, gfx.ErrNoPhysicalDevice
	}
	for _, d := range devices {
		if d.Type == gfx.PhysicalDeviceTypeDiscrete {
			return d, nil
		}
	}
	return devices[0], nil
}

// SelectQueueRoles assigns the graphics and present roles. A family
// doing both is preferred, otherwise the first graphics family and the
// first present family are used.
func SelectQueueRoles(families []gfx.QueueFamily) (gfx.QueueRoles, error) {
	if len(families) == 0 {
		return nil, fmt.Errorf("device reports no queue families: %w", gfx.ErrNoQueueFamily)
	}

	for _, f := range families {
		if f.Graphics && f.Present && f.Count > 0 {
			return gfx.QueueRoles{
				{Role: gfx.QueueGraphics, Family: f.Index},
				{Role: gfx.QueuePresent, Family: f.Index},
			}, nil
		}
	}

	var roles gfx.QueueRoles
	for _, role := range []gfx.QueueRole{gfx.QueueGraphics, gfx.QueuePresent} {
		for _, f := range families {
			if f.Count == 0 {
				continue
			}
			if (role == gfx.QueueGraphics && f.Graphics) || (role == gfx.QueuePresent && f.Present) {
				roles = append(roles, gfx.QueueAssignment{Role: role, Family: f.Index})
				break
			}
		}
		if _, ok := roles.Family(role); !ok {
			return nil, fmt.Errorf("no family for the %s role: %w", role, gfx.ErrNoQueueFamily)
		}
	}
	return roles, nil
}

// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"testing"

	"github.com/devblok/umbra/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	instance := gfxtest.NewInstance()
	instance.Surface = true

	r, err := collect(instance)
	require.NoError(t, err)
	require.Len(t, r.Devices, 2)
	assert.Equal(t, "Fake Discrete", r.Selected)
	assert.Len(t, r.Devices[0].QueueFamilies, 1)

	bytes, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded struct {
		Devices []struct {
			Name          string `json:"name"`
			Type          string `json:"type"`
			QueueFamilies []struct {
				Graphics bool `json:"graphics"`
			} `json:"queueFamilies"`
		} `json:"devices"`
		Selected string `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(bytes, &decoded))
	assert.Equal(t, "integrated", decoded.Devices[0].Type)
	assert.Equal(t, "Fake Discrete", decoded.Devices[1].Name)
	assert.True(t, decoded.Devices[1].QueueFamilies[0].Graphics)
}

func TestCollectWithoutDevices(t *testing.T) {
	instance := gfxtest.NewInstance()
	instance.Devices = nil

	r, err := collect(instance)
	require.NoError(t, err)
	assert.Empty(t, r.Devices)
	assert.Empty(t, r.Selected)
}

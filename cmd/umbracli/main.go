// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command umbracli prints the devices Vulkan reports as JSON, with the
// queue families of each and the device the engine would pick.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/devblok/umbra/core"
	"github.com/devblok/umbra/gfx"
	"github.com/devblok/umbra/gfx/vkr"
	log "github.com/sirupsen/logrus"
)

var (
	debug  = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	indent = flag.Bool("indent", true, "Indent the output")
)

type deviceReport struct {
	gfx.PhysicalDevice
	QueueFamilies []gfx.QueueFamily `json:"queueFamilies"`
}

type report struct {
	Devices  []deviceReport `json:"devices"`
	Selected string         `json:"selected,omitempty"`
}

func main() {
	flag.Parse()

	instance, err := vkr.NewInstance(vkr.DefaultApplicationInfo, nil, vkr.InstanceConfiguration{
		Validation: *debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	r, err := collect(instance)
	if err != nil {
		log.Fatal(err)
	}

	var bytes []byte
	if *indent {
		bytes, err = json.MarshalIndent(r, "", "  ")
	} else {
		bytes, err = json.Marshal(r)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stdout, "%s\n", bytes)
}

// collect has no surface to query, so no family reports presentation.
func collect(instance gfx.Instance) (report, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return report{}, err
	}

	var r report
	for _, d := range devices {
		families, err := instance.QueueFamilies(d)
		if err != nil {
			return report{}, err
		}
		r.Devices = append(r.Devices, deviceReport{PhysicalDevice: d, QueueFamilies: families})
	}
	if selected, err := core.SelectPhysicalDevice(devices); err == nil {
		r.Selected = selected.Name
	}
	return r, nil
}

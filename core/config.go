// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/pelletier/go-toml/v2"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration     `toml:"time"`
	Renderer RendererConfiguration `toml:"renderer"`
	Camera   CameraConfiguration   `toml:"camera"`
	Assets   AssetConfiguration    `toml:"assets"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `toml:"fps"`

	// EventPollDelay is the window event polling period in milliseconds.
	EventPollDelay int `toml:"event_poll_delay"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	SwapchainSize    uint32   `toml:"swapchain_size"`
	DeviceExtensions []string `toml:"device_extensions"`

	ScreenWidth  uint32 `toml:"width"`
	ScreenHeight uint32 `toml:"height"`

	ShadowMapSize uint32     `toml:"shadow_map_size"`
	MaxTextures   uint32     `toml:"max_textures"`
	ClearColor    [4]float32 `toml:"clear_color"`

	// Validation enables the Vulkan validation layer.
	Validation bool `toml:"validation"`
}

// CameraConfiguration places the viewer camera.
type CameraConfiguration struct {
	FieldOfView float32    `toml:"fov"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	Position    [3]float32 `toml:"position"`
	Rotation    [3]float32 `toml:"rotation"`
}

// AssetConfiguration points at the assets to load.
type AssetConfiguration struct {
	// Path is a directory or a .kar archive.
	Path string `toml:"path"`

	// World is the world file inside Path.
	World string `toml:"world"`

	// Watch reloads the world when its file changes on disk.
	Watch bool `toml:"watch"`
}

// DefaultConfiguration returns the configuration used when nothing overrides it.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  10,
		},
		Renderer: RendererConfiguration{
			SwapchainSize: 2,
			ScreenWidth:   1280,
			ScreenHeight:  720,
			ShadowMapSize: 2000,
			MaxTextures:   MaxModels,
			ClearColor:    [4]float32{0.9, 0.9, 0.9, 1},
		},
		Camera: CameraConfiguration{
			FieldOfView: 120,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{0, -2, -10},
		},
		Assets: AssetConfiguration{
			Path:  "assets",
			World: "default.sw",
		},
	}
}

// LoadConfiguration reads a TOML file over the defaults and then applies
// UMBRA_* environment overrides. An empty path skips the file.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read configuration: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse configuration %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvironment(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Configuration) applyEnvironment() error {
	// Pick up variables set after start up, such as a loaded .env file.
	envy.Reload()

	for _, u := range []struct {
		key string
		dst *uint32
	}{
		{"UMBRA_WIDTH", &c.Renderer.ScreenWidth},
		{"UMBRA_HEIGHT", &c.Renderer.ScreenHeight},
	} {
		if v := envy.Get(u.key, ""); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("%s: %w", u.key, err)
			}
			*u.dst = uint32(n)
		}
	}
	if v := envy.Get("UMBRA_FPS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UMBRA_FPS: %w", err)
		}
		c.Time.FramesPerSecond = n
	}
	if v := envy.Get("UMBRA_VALIDATION", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("UMBRA_VALIDATION: %w", err)
		}
		c.Renderer.Validation = b
	}
	c.Assets.Path = envy.Get("UMBRA_ASSETS", c.Assets.Path)
	c.Assets.World = envy.Get("UMBRA_WORLD", c.Assets.World)
	return nil
}

// Validate rejects configurations the engine cannot run with.
func (c Configuration) Validate() error {
	switch {
	case c.Renderer.SwapchainSize == 0:
		return fmt.Errorf("swapchain size must be at least 1")
	case c.Renderer.ShadowMapSize == 0:
		return fmt.Errorf("shadow map size must be at least 1")
	case c.Renderer.MaxTextures == 0:
		return fmt.Errorf("max textures must be at least 1")
	case c.Time.FramesPerSecond < 0:
		return fmt.Errorf("negative frames per second")
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera depth range %v..%v is invalid", c.Camera.Near, c.Camera.Far)
	}
	return nil
}

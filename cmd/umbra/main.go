// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/devblok/umbra/assets"
	"github.com/devblok/umbra/core"
	"github.com/devblok/umbra/gfx/vkr"
	"github.com/devblok/umbra/world"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "TOML configuration file")
	envFile    = flag.String("env", "", "Load environment variables from a .env file")
	logLevel   = flag.String("loglevel", "info", "Log level")
	logJSON    = flag.Bool("logjson", false, "Log in JSON")
	debug      = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
)

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

// Compiled shaders are looked up in the asset source first, then here.
var shaderBox = packr.NewBox("../../shaders")

func setupLogging() error {
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if *logJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func newWindow(cfg core.RendererConfiguration) (*sdl.Window, error) {
	return sdl.CreateWindow("Umbra",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
}

func main() {
	flag.Parse()

	if err := setupLogging(); err != nil {
		log.Fatal(err)
	}
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.WithError(err).Fatal("load environment file")
		}
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	if err := run(); err != nil {
		log.WithError(err).Error("umbra stopped")
		// Deferred profile writers would be skipped by log.Fatal.
		pprof.StopCPUProfile()
		trace.Stop()
		os.Exit(1)
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
	}
}

// run owns every resource and releases them in reverse order before
// returning, so a fatal error still tears the device down cleanly.
func run() error {
	cfg, err := core.LoadConfiguration(*configPath)
	if err != nil {
		return err
	}
	if *debug {
		cfg.Renderer.Validation = true
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl init")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return errors.Wrap(err, "load vulkan library")
	}
	defer sdl.VulkanUnloadLibrary()

	window, err := newWindow(cfg.Renderer)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()

	source, closer, err := assets.Open(cfg.Assets.Path)
	if err != nil {
		return err
	}
	defer closer.Close()

	shaders, err := assets.LoadShaders(assets.Multi{source, shaderBox})
	if err != nil {
		return err
	}

	instance, err := vkr.NewInstance(vkr.DefaultApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), vkr.InstanceConfiguration{
		Validation: cfg.Renderer.Validation,
		Extensions: window.VulkanGetInstanceExtensions(),
	})
	if err != nil {
		return err
	}

	logger := log.WithField("app", "umbra")
	engine, err := core.NewEngine(instance, window, shaders, cfg, logger)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	if err := loadWorld(engine, source, cfg.Assets.World); err != nil {
		return err
	}

	var changes <-chan string
	if dir, ok := source.(assets.Dir); ok && cfg.Assets.Watch {
		watcher, err := world.Watch(string(dir), logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		changes = watcher.Changes()
	}

	timeService := core.NewTime(cfg.Time)
	defer timeService.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	var counter sync.WaitGroup
	defer func() {
		cancel()
		counter.Wait()
	}()

	counter.Add(1)
	go func() {
		defer counter.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("\r\033[2KFrame count: %d\tCGO calls: %d", timeService.TakeFrames(), runtime.NumCgoCall())
			}
		}
	}()

	// Rendering and event polling share this thread: SDL wants its
	// events on the thread that created the window.
	for {
		select {
		case <-timeService.FpsTicker().C:
			status, err := engine.Frame()
			if err != nil {
				return errors.Wrap(err, "frame")
			}
			if status == core.FrameReady {
				timeService.Frame()
			}
		case <-timeService.EventTicker().C:
			if quit := pollEvents(engine); quit {
				logger.Info("exiting")
				return nil
			}
		case name := <-changes:
			logger.WithField("file", name).Info("reloading world")
			if err := loadWorld(engine, source, cfg.Assets.World); err != nil {
				logger.WithError(err).Warn("world reload failed, keeping the previous one")
			}
		}
	}
}

func loadWorld(engine *core.Engine, source assets.Source, name string) error {
	bundle, err := world.Load(source, name)
	if err != nil {
		return err
	}
	return engine.LoadWorld(bundle)
}

// pollEvents drains the SDL queue and reports whether to quit.
func pollEvents(engine *core.Engine) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		case *sdl.QuitEvent:
			return true
		case *sdl.WindowEvent:
			if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				engine.Resize(uint32(et.Data1), uint32(et.Data2))
			}
		}
	}
	return false
}

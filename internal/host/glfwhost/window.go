//go:build glfw

// Package glfwhost runs the simulation in a GLFW window with an OpenGL 4.1
// core context.
package glfwhost

import (
	"fmt"
	"log/slog"
	"runtime"

	"gpulife/internal/app"
	"gpulife/internal/core"
	"gpulife/internal/gol"
	"gpulife/internal/gpu"
	"gpulife/internal/gpu/glgpu"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
	app.RegisterBackend("glfw", Run)
}

var keyActions = map[glfw.Key]app.Action{
	glfw.KeyQ:      app.ActionQuit,
	glfw.KeyEscape: app.ActionQuit,
	glfw.KeySpace:  app.ActionTogglePause,
	glfw.KeyEnter:  app.ActionResume,
	glfw.KeyN:      app.ActionStepOnce,
	glfw.KeyR:      app.ActionReset,
	glfw.KeyS:      app.ActionShuffle,
	glfw.KeyH:      app.ActionToggleOverlay,
}

// Run opens the window and blocks until it closes.
func Run(cfg *app.Config) error {
	log := slog.Default().With(slog.String("backend", "glfw"))
	if err := glfw.Init(); err != nil {
		return &gpu.ResourceError{What: "glfw", Err: err}
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return &gpu.ResourceError{What: "window", Err: err}
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := glgpu.New(log)
	if err != nil {
		return err
	}
	defer dev.Release()

	// The drawable can be larger than the window on high-density screens.
	fw, fh := window.GetFramebufferSize()
	display, err := core.AlignedDisplay(core.Size{W: fw, H: fh}, cfg.Scale)
	if err != nil {
		return err
	}
	sim, err := core.SimSize(display, cfg.Scale)
	if err != nil {
		return err
	}
	data, err := app.InitialState(cfg, sim, cfg.Seed)
	if err != nil {
		return err
	}
	eng, err := gol.New(dev, gol.Options{Display: display, Scale: cfg.Scale, Seed: data})
	if err != nil {
		return err
	}
	ctl := app.NewController(eng, cfg, log)

	var pending []app.Action
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if a, ok := keyActions[key]; ok {
			pending = append(pending, a)
		}
	})

	log.Info("starting", slog.String("display", display.String()), slog.Int("tps", cfg.TPS))
	title := ""
	for !window.ShouldClose() {
		for _, a := range pending {
			quit, err := ctl.Handle(a)
			if err != nil {
				return err
			}
			if quit {
				window.SetShouldClose(true)
			}
		}
		pending = pending[:0]

		ctl.Frame()
		window.SwapBuffers()
		glfw.PollEvents()

		// No text renderer here; the overlay goes in the title bar.
		next := cfg.Title
		if ctl.OverlayVisible() {
			next = fmt.Sprintf("%s | %s", cfg.Title, ctl.Stats())
		}
		if next != title {
			window.SetTitle(next)
			title = next
		}
	}
	return nil
}

// Package gol drives the Game of Life on a gpu.Device.
//
// The grid lives only in two device textures. Each Step draws the current
// generation to the visible surface, renders the next generation into the
// other texture through a single reused framebuffer, and then exchanges the
// two roles. No CPU copy of the grid is kept.
package gol

import (
	"fmt"
	"log/slog"

	"gpulife/internal/core"
	"gpulife/internal/gpu"
	"gpulife/internal/shaders"
)

// Options configures New.
type Options struct {
	// Display is the size of the visible surface.
	Display core.Size
	// Scale is the pixel-block factor k; each cell covers k*k display pixels.
	Scale int
	// Seed optionally holds Sim().Area() bytes for the first generation.
	// Nil starts with every cell dead.
	Seed []byte
	// Shaders overrides the sources rendered for the device dialect.
	Shaders *shaders.Set
}

// Engine owns the programs, geometry, textures and framebuffer of one
// simulation. It is not safe for concurrent use.
type Engine struct {
	dev gpu.Device

	display core.Size
	sim     core.Size
	scale   int

	compute gpu.Program
	show    gpu.Program
	quad    gpu.Buffer
	fb      gpu.Framebuffer

	// tex[cur] is the current generation; tex[cur^1] is the write target.
	tex [2]gpu.Texture
	cur int
	gen uint64
}

// New creates every device object the simulation needs. Compile and link
// failures carry the backend log.
func New(dev gpu.Device, opts Options) (*Engine, error) {
	sim, err := core.SimSize(opts.Display, opts.Scale)
	if err != nil {
		return nil, fmt.Errorf("gol: %w", err)
	}
	if opts.Seed != nil && len(opts.Seed) != sim.Area() {
		return nil, fmt.Errorf("gol: seed has %d bytes, grid %v needs %d", len(opts.Seed), sim, sim.Area())
	}

	set := opts.Shaders
	if set == nil {
		s, err := shaders.For(dev.Dialect())
		if err != nil {
			return nil, fmt.Errorf("gol: %w", err)
		}
		set = &s
	}

	e := &Engine{dev: dev, display: opts.Display, sim: sim, scale: opts.Scale}
	b := gpu.NewBinder(dev)

	vs, err := b.CompileShader(gpu.VertexStage, set.Vertex)
	if err != nil {
		return nil, initErr("vertex shader", err)
	}
	computeFS, err := b.CompileShader(gpu.FragmentStage, set.Compute)
	if err != nil {
		return nil, initErr("compute shader", err)
	}
	displayFS, err := b.CompileShader(gpu.FragmentStage, set.Display)
	if err != nil {
		return nil, initErr("display shader", err)
	}
	if e.show, err = b.LinkProgram(vs, displayFS); err != nil {
		return nil, initErr("display program", err)
	}
	if e.compute, err = b.LinkProgram(vs, computeFS); err != nil {
		return nil, initErr("compute program", err)
	}

	dev.UseProgram(e.compute)
	if e.quad, err = b.CreateQuad(e.compute, shaders.Position); err != nil {
		return nil, initErr("quad", err)
	}

	// The seeded texture is created last so it is the one left bound.
	if e.tex[1], err = b.CreateTexture(sim.W, sim.H, nil); err != nil {
		return nil, initErr("target texture", err)
	}
	if e.tex[0], err = b.CreateTexture(sim.W, sim.H, opts.Seed); err != nil {
		return nil, initErr("state texture", err)
	}
	dev.BindTexture(0, e.tex[0])

	dev.UseProgram(e.compute)
	dev.SetUniform1i(shaders.Texture, 0)
	dev.SetUniform2f(shaders.Size, float32(sim.W), float32(sim.H))

	dev.UseProgram(e.show)
	dev.SetUniform1i(shaders.Texture, 0)
	dev.SetUniform1f(shaders.Scale, float32(opts.Scale))

	if e.fb, err = b.CreateFramebuffer(); err != nil {
		return nil, initErr("framebuffer", err)
	}

	Logger().Info("gol: engine ready",
		slog.String("dialect", string(dev.Dialect())),
		slog.String("display", opts.Display.String()),
		slog.String("sim", sim.String()),
		slog.Int("scale", opts.Scale),
		slog.Bool("seeded", opts.Seed != nil))
	return e, nil
}

func initErr(what string, err error) error {
	Logger().Error("gol: initialization failed", slog.String("object", what), slog.Any("err", err))
	return fmt.Errorf("gol: %s: %w", what, err)
}

// Present draws the current generation to the visible surface without
// advancing it.
func (e *Engine) Present() {
	e.dev.UseProgram(e.show)
	e.dev.SetViewport(e.display.W, e.display.H)
	e.dev.Clear(0, 0, 0, 1)
	e.dev.DrawTriangles(gpu.QuadVertexCount)
}

// Step draws the current generation, computes the next one into the write
// target and swaps the texture roles.
func (e *Engine) Step() {
	e.Present()

	target := e.tex[e.cur^1]
	e.dev.UseProgram(e.compute)
	e.dev.SetViewport(e.sim.W, e.sim.H)
	e.dev.BindFramebuffer(e.fb)
	e.dev.AttachColorTarget(target)
	e.dev.Clear(0, 0, 0, 1)
	e.dev.DrawTriangles(gpu.QuadVertexCount)
	e.dev.BindFramebuffer(gpu.DefaultFramebuffer)

	e.dev.BindTexture(0, target)
	e.cur ^= 1
	e.gen++
}

// Reseed uploads data as the current generation and restarts the
// generation count. data must hold Sim().Area() bytes; nil clears the grid.
func (e *Engine) Reseed(data []byte) error {
	if data != nil && len(data) != e.sim.Area() {
		return fmt.Errorf("gol: reseed with %d bytes, grid %v needs %d", len(data), e.sim, e.sim.Area())
	}
	cur := e.tex[e.cur]
	e.dev.BindTexture(0, cur)
	if err := e.dev.UploadTextureData(e.sim.W, e.sim.H, data); err != nil {
		return fmt.Errorf("gol: reseed: %w", err)
	}
	e.gen = 0
	Logger().Debug("gol: reseeded", slog.Bool("empty", data == nil))
	return nil
}

// Current returns the texture holding the newest generation.
func (e *Engine) Current() gpu.Texture { return e.tex[e.cur] }

// Target returns the texture the next Step renders into.
func (e *Engine) Target() gpu.Texture { return e.tex[e.cur^1] }

// Generation returns the number of Steps since New or the last Reseed.
func (e *Engine) Generation() uint64 { return e.gen }

// Display returns the visible surface size.
func (e *Engine) Display() core.Size { return e.display }

// Sim returns the simulation grid size.
func (e *Engine) Sim() core.Size { return e.sim }

// Scale returns the pixel-block factor.
func (e *Engine) Scale() int { return e.scale }

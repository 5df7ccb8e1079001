//go:build ebiten

// Package ebitengpu implements gpu.Device on ebiten images and Kage shaders.
//
// Textures are offscreen ebiten images, framebuffer attachments are the
// images they name, and the default framebuffer is the screen image handed
// over by SetScreen each frame. ebiten supplies the vertex stage itself, so
// vertex shaders are accepted and ignored; clip-space positions from the
// bound buffer are mapped to viewport pixels on the CPU.
package ebitengpu

import (
	"fmt"
	"image"
	"log/slog"

	"gpulife/internal/gpu"

	"github.com/hajimehoshi/ebiten/v2"
)

type texture struct {
	img  *ebiten.Image
	w, h int
	buf  []byte

	min, mag     gpu.Filter
	wrapS, wrapT gpu.Wrap
}

type shader struct {
	stage gpu.Stage
	prog  *ebiten.Shader
}

type program struct {
	shader   *ebiten.Shader
	uniforms map[string]any
}

type buffer struct {
	data       []float32
	components int
}

// Device is a gpu.Device drawing through ebiten.
type Device struct {
	log    *slog.Logger
	screen *ebiten.Image

	shaders  map[gpu.Shader]*shader
	programs map[gpu.Program]*program
	buffers  map[gpu.Buffer]*buffer
	textures map[gpu.Texture]*texture
	fbs      map[gpu.Framebuffer]gpu.Texture
	next     uint32

	prog     gpu.Program
	buf      gpu.Buffer
	fb       gpu.Framebuffer
	units    [4]gpu.Texture
	viewport image.Point
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty device. SetScreen must be called before anything is
// drawn to the default framebuffer.
func New(log *slog.Logger) *Device {
	if log == nil {
		log = slog.Default()
	}
	return &Device{
		log:      log,
		shaders:  map[gpu.Shader]*shader{},
		programs: map[gpu.Program]*program{},
		buffers:  map[gpu.Buffer]*buffer{},
		textures: map[gpu.Texture]*texture{},
		fbs:      map[gpu.Framebuffer]gpu.Texture{},
	}
}

// SetScreen sets the image drawn by the default framebuffer.
func (d *Device) SetScreen(screen *ebiten.Image) { d.screen = screen }

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) Dialect() gpu.Dialect { return gpu.Kage }

func (d *Device) CreateShader(stage gpu.Stage, src string) (gpu.Shader, error) {
	sh := &shader{stage: stage}
	if stage == gpu.FragmentStage {
		prog, err := ebiten.NewShader([]byte(src))
		if err != nil {
			return 0, &gpu.ShaderCompileError{Stage: stage, Log: err.Error()}
		}
		sh.prog = prog
	}
	h := gpu.Shader(d.handle())
	d.shaders[h] = sh
	return h, nil
}

func (d *Device) CreateProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	v, ok := d.shaders[vs]
	if !ok || v.stage != gpu.VertexStage {
		return 0, &gpu.ProgramLinkError{Log: fmt.Sprintf("shader %d is not a vertex shader", vs)}
	}
	f, ok := d.shaders[fs]
	if !ok || f.stage != gpu.FragmentStage {
		return 0, &gpu.ProgramLinkError{Log: fmt.Sprintf("shader %d is not a fragment shader", fs)}
	}
	h := gpu.Program(d.handle())
	d.programs[h] = &program{shader: f.prog, uniforms: map[string]any{}}
	return h, nil
}

func (d *Device) UseProgram(p gpu.Program) { d.prog = p }

func (d *Device) setUniform(name string, v any) {
	if p := d.programs[d.prog]; p != nil {
		p.uniforms[name] = v
	}
}

func (d *Device) SetUniform1i(name string, v int32) { d.setUniform(name, v) }

func (d *Device) SetUniform2f(name string, x, y float32) { d.setUniform(name, []float32{x, y}) }

func (d *Device) SetUniform1f(name string, v float32) { d.setUniform(name, v) }

func (d *Device) CreateBuffer() (gpu.Buffer, error) {
	h := gpu.Buffer(d.handle())
	d.buffers[h] = &buffer{components: 2}
	return h, nil
}

func (d *Device) BindBuffer(b gpu.Buffer) { d.buf = b }

func (d *Device) UploadVertexData(data []float32) {
	if b := d.buffers[d.buf]; b != nil {
		b.data = append(b.data[:0], data...)
	}
}

func (d *Device) VertexLayout(p gpu.Program, attrib string, components int) error {
	if _, ok := d.programs[p]; !ok {
		return fmt.Errorf("ebitengpu: unknown program %d", p)
	}
	b := d.buffers[d.buf]
	if b == nil {
		return fmt.Errorf("ebitengpu: no vertex buffer bound for %q", attrib)
	}
	b.components = components
	return nil
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	h := gpu.Texture(d.handle())
	d.textures[h] = &texture{}
	return h, nil
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	if unit < 0 || unit >= len(d.units) {
		d.log.Warn("texture unit out of range", slog.Int("unit", unit))
		return
	}
	d.units[unit] = t
}

// TextureParameters records the sampling state. Kage fetches texels by
// pixel position, so filtering and wrapping have no effect on drawing.
func (d *Device) TextureParameters(min, mag gpu.Filter, wrapS, wrapT gpu.Wrap) {
	if t := d.textures[d.units[0]]; t != nil {
		t.min, t.mag, t.wrapS, t.wrapT = min, mag, wrapS, wrapT
	}
}

func (d *Device) UploadTextureData(w, h int, data []byte) error {
	t := d.textures[d.units[0]]
	if t == nil {
		return &gpu.TextureCreateError{W: w, H: h, Reason: "no texture bound on unit 0"}
	}
	if w <= 0 || h <= 0 {
		return &gpu.TextureCreateError{W: w, H: h, Reason: "dimensions must be positive"}
	}
	if data != nil && len(data) != w*h {
		return &gpu.TextureCreateError{W: w, H: h, Reason: fmt.Sprintf("have %d bytes", len(data))}
	}
	if t.img == nil || t.w != w || t.h != h {
		if t.img != nil {
			t.img.Dispose()
		}
		t.img = ebiten.NewImage(w, h)
		t.w, t.h = w, h
		t.buf = make([]byte, 4*w*h)
	}
	if data == nil {
		data = make([]byte, w*h)
	}
	fillRedRGBA(t.buf, data)
	t.img.WritePixels(t.buf)
	return nil
}

func (d *Device) CreateFramebuffer() (gpu.Framebuffer, error) {
	h := gpu.Framebuffer(d.handle())
	d.fbs[h] = 0
	return h, nil
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) { d.fb = fb }

func (d *Device) AttachColorTarget(t gpu.Texture) {
	if d.fb == gpu.DefaultFramebuffer {
		d.log.Warn("cannot attach a texture to the screen")
		return
	}
	d.fbs[d.fb] = t
}

func (d *Device) SetViewport(w, h int) { d.viewport = image.Pt(w, h) }

// target returns the image the bound framebuffer draws into.
func (d *Device) target() *ebiten.Image {
	if d.fb == gpu.DefaultFramebuffer {
		return d.screen
	}
	if t := d.textures[d.fbs[d.fb]]; t != nil {
		return t.img
	}
	return nil
}

func (d *Device) Clear(r, g, b, a float32) {
	if dst := d.target(); dst != nil {
		dst.Fill(clearColor(r, g, b, a))
	}
}

func (d *Device) DrawTriangles(count int) {
	dst := d.target()
	p := d.programs[d.prog]
	b := d.buffers[d.buf]
	if dst == nil || p == nil || p.shader == nil || b == nil {
		d.log.Warn("draw skipped: incomplete state",
			slog.Bool("target", dst != nil), slog.Bool("program", p != nil), slog.Bool("buffer", b != nil))
		return
	}
	var src *ebiten.Image
	if t := d.textures[d.units[0]]; t != nil {
		src = t.img
	}
	if src == dst {
		d.log.Error("draw skipped: source texture is the render target")
		return
	}

	view := image.Rectangle{Max: d.viewport}.Intersect(dst.Bounds())
	if view.Empty() {
		return
	}
	pos := pixelPositions(b.data, b.components, count, view.Dx(), view.Dy())
	vertices := make([]ebiten.Vertex, len(pos))
	indices := make([]uint16, len(pos))
	var sw, sh float32
	if src != nil {
		sz := src.Bounds().Size()
		sw, sh = float32(sz.X), float32(sz.Y)
	}
	for i, v := range pos {
		vertices[i] = ebiten.Vertex{
			DstX: v[0], DstY: v[1],
			SrcX: v[0] / float32(view.Dx()) * sw, SrcY: v[1] / float32(view.Dy()) * sh,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
		indices[i] = uint16(i)
	}
	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: p.uniforms,
		Blend:    ebiten.BlendCopy,
	}
	op.Images[0] = src
	dst.SubImage(view).(*ebiten.Image).DrawTrianglesShader(vertices, indices, p.shader, op)
}

// Release disposes every image and shader the device created.
func (d *Device) Release() {
	for _, t := range d.textures {
		if t.img != nil {
			t.img.Dispose()
		}
	}
	for _, s := range d.shaders {
		if s.prog != nil {
			s.prog.Dispose()
		}
	}
	d.textures = map[gpu.Texture]*texture{}
	d.shaders = map[gpu.Shader]*shader{}
	d.programs = map[gpu.Program]*program{}
}

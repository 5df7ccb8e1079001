// Package gputest provides an in-memory gpu.Device for tests.
//
// The device records every call and rasterizes draws by running Go fragment
// functions registered against shader sources. Textures store one unsigned
// normalized byte per texel, so written values are clamped to [0,1] and
// quantized the way an R8 render target would.
package gputest

import (
	"fmt"
	"math"

	"gpulife/internal/core"
	"gpulife/internal/gpu"
)

// Fragment is the per-pixel context handed to a FragmentFunc.
type Fragment struct {
	// X, Y is the integer lattice position of the fragment within the viewport.
	X, Y int

	dev  *Device
	prog *program
}

// Fetch returns the texel at (x, y) of the texture bound on unit 0, in [0,1].
// Coordinates outside the texture return 0.
func (f *Fragment) Fetch(x, y int) float32 {
	t := f.dev.texture(f.dev.units[0])
	if t == nil || x < 0 || y < 0 || x >= t.w || y >= t.h {
		return 0
	}
	return float32(t.data[y*t.w+x]) / 255
}

// Uniform1f returns a float uniform of the running program.
func (f *Fragment) Uniform1f(name string) float32 {
	v, _ := f.prog.uniforms[name].(float32)
	return v
}

// Uniform2f returns a vec2 uniform of the running program.
func (f *Fragment) Uniform2f(name string) (float32, float32) {
	v, _ := f.prog.uniforms[name].([2]float32)
	return v[0], v[1]
}

// Uniform1i returns an int uniform of the running program.
func (f *Fragment) Uniform1i(name string) int32 {
	v, _ := f.prog.uniforms[name].(int32)
	return v
}

// FragmentFunc computes the red channel written for one fragment.
type FragmentFunc func(f *Fragment) float32

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

type shader struct {
	stage gpu.Stage
	src   string
}

type program struct {
	vs, fs   gpu.Shader
	uniforms map[string]any
	attribs  map[string]int
}

type texture struct {
	w, h     int
	data     []byte
	min, mag gpu.Filter
	wrapS    gpu.Wrap
	wrapT    gpu.Wrap
}

// Device is a recording, rasterizing gpu.Device.
type Device struct {
	// CompileLogs makes CreateShader fail for a stage with the given log.
	CompileLogs map[gpu.Stage]string
	// LinkLog makes CreateProgram fail with this log when non-empty.
	LinkLog string
	// FailFramebuffer makes CreateFramebuffer fail.
	FailFramebuffer bool

	surface     core.Size
	surfaceData []byte

	dialect   gpu.Dialect
	fragments map[string]FragmentFunc

	shaders  []shader
	programs []*program
	buffers  [][]float32
	textures []*texture
	fbs      []gpu.Texture

	prog     gpu.Program
	buf      gpu.Buffer
	units    [8]gpu.Texture
	fb       gpu.Framebuffer
	viewport core.Size
	layout   int

	calls  []Call
	faults []string
}

// New returns a device whose visible surface has the given size.
func New(surface core.Size) *Device {
	return &Device{
		surface:     surface,
		surfaceData: make([]byte, surface.Area()),
		dialect:     gpu.GLSL,
		fragments:   map[string]FragmentFunc{},
	}
}

// SetDialect changes the dialect reported to the engine.
func (d *Device) SetDialect(dl gpu.Dialect) { d.dialect = dl }

// Register runs fn for every fragment drawn by programs whose fragment
// shader was compiled from src.
func (d *Device) Register(src string, fn FragmentFunc) { d.fragments[src] = fn }

// Calls returns every recorded call in order.
func (d *Device) Calls() []Call { return d.calls }

// Ops returns the operation names of the recorded calls.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.calls))
	for i, c := range d.calls {
		ops[i] = c.Op
	}
	return ops
}

// ResetCalls clears the call log.
func (d *Device) ResetCalls() { d.calls = d.calls[:0] }

// Faults lists protocol violations a real backend would have rejected or
// left undefined, such as sampling the texture being rendered into.
func (d *Device) Faults() []string { return d.faults }

// Surface returns the visible surface, one byte per pixel, row-major.
func (d *Device) Surface() []byte { return d.surfaceData }

// TextureData returns the texels of t, or nil for an unknown handle.
func (d *Device) TextureData(t gpu.Texture) []byte {
	tex := d.texture(t)
	if tex == nil {
		return nil
	}
	return tex.data
}

// TextureSize returns the dimensions of t.
func (d *Device) TextureSize(t gpu.Texture) core.Size {
	tex := d.texture(t)
	if tex == nil {
		return core.Size{}
	}
	return core.Size{W: tex.w, H: tex.h}
}

// TextureParams returns the sampling parameters of t.
func (d *Device) TextureParams(t gpu.Texture) (min, mag gpu.Filter, wrapS, wrapT gpu.Wrap) {
	tex := d.texture(t)
	if tex == nil {
		return
	}
	return tex.min, tex.mag, tex.wrapS, tex.wrapT
}

// Bound returns the texture bound on unit 0.
func (d *Device) Bound() gpu.Texture { return d.units[0] }

// Attachment returns the color attachment of fb.
func (d *Device) Attachment(fb gpu.Framebuffer) gpu.Texture {
	if fb == 0 || int(fb) > len(d.fbs) {
		return 0
	}
	return d.fbs[fb-1]
}

func (d *Device) record(op string, args ...any) {
	d.calls = append(d.calls, Call{Op: op, Args: args})
}

func (d *Device) fault(format string, args ...any) {
	d.faults = append(d.faults, fmt.Sprintf(format, args...))
}

func (d *Device) texture(t gpu.Texture) *texture {
	if t == 0 || int(t) > len(d.textures) {
		return nil
	}
	return d.textures[t-1]
}

func (d *Device) program(p gpu.Program) *program {
	if p == 0 || int(p) > len(d.programs) {
		return nil
	}
	return d.programs[p-1]
}

func (d *Device) Dialect() gpu.Dialect { return d.dialect }

func (d *Device) CreateShader(stage gpu.Stage, src string) (gpu.Shader, error) {
	d.record("CreateShader", stage)
	if log, ok := d.CompileLogs[stage]; ok {
		return 0, &gpu.ShaderCompileError{Stage: stage, Log: log}
	}
	d.shaders = append(d.shaders, shader{stage: stage, src: src})
	return gpu.Shader(len(d.shaders)), nil
}

func (d *Device) CreateProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	d.record("CreateProgram", vs, fs)
	if d.LinkLog != "" {
		return 0, &gpu.ProgramLinkError{Log: d.LinkLog}
	}
	if vs == 0 || int(vs) > len(d.shaders) || d.shaders[vs-1].stage != gpu.VertexStage {
		return 0, &gpu.ProgramLinkError{Log: fmt.Sprintf("shader %d is not a vertex shader", vs)}
	}
	if fs == 0 || int(fs) > len(d.shaders) || d.shaders[fs-1].stage != gpu.FragmentStage {
		return 0, &gpu.ProgramLinkError{Log: fmt.Sprintf("shader %d is not a fragment shader", fs)}
	}
	d.programs = append(d.programs, &program{vs: vs, fs: fs, uniforms: map[string]any{}, attribs: map[string]int{}})
	return gpu.Program(len(d.programs)), nil
}

func (d *Device) UseProgram(p gpu.Program) {
	d.record("UseProgram", p)
	d.prog = p
}

func (d *Device) setUniform(op, name string, v any) {
	d.record(op, name, v)
	pr := d.program(d.prog)
	if pr == nil {
		d.fault("%s(%q) with no program in use", op, name)
		return
	}
	pr.uniforms[name] = v
}

func (d *Device) SetUniform1i(name string, v int32) { d.setUniform("SetUniform1i", name, v) }

func (d *Device) SetUniform2f(name string, x, y float32) {
	d.setUniform("SetUniform2f", name, [2]float32{x, y})
}

func (d *Device) SetUniform1f(name string, v float32) { d.setUniform("SetUniform1f", name, v) }

// Uniform returns the value last set for name on p.
func (d *Device) Uniform(p gpu.Program, name string) any {
	pr := d.program(p)
	if pr == nil {
		return nil
	}
	return pr.uniforms[name]
}

func (d *Device) CreateBuffer() (gpu.Buffer, error) {
	d.record("CreateBuffer")
	d.buffers = append(d.buffers, nil)
	return gpu.Buffer(len(d.buffers)), nil
}

func (d *Device) BindBuffer(b gpu.Buffer) {
	d.record("BindBuffer", b)
	d.buf = b
}

func (d *Device) UploadVertexData(data []float32) {
	d.record("UploadVertexData", len(data))
	if d.buf == 0 {
		d.fault("UploadVertexData with no buffer bound")
		return
	}
	d.buffers[d.buf-1] = append([]float32(nil), data...)
}

func (d *Device) VertexLayout(p gpu.Program, attrib string, components int) error {
	d.record("VertexLayout", p, attrib, components)
	pr := d.program(p)
	if pr == nil {
		return fmt.Errorf("gputest: unknown program %d", p)
	}
	pr.attribs[attrib] = components
	d.layout = components
	return nil
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	d.record("CreateTexture")
	d.textures = append(d.textures, &texture{})
	return gpu.Texture(len(d.textures)), nil
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.record("BindTexture", unit, t)
	if unit < 0 || unit >= len(d.units) {
		d.fault("BindTexture on unit %d", unit)
		return
	}
	d.units[unit] = t
}

func (d *Device) TextureParameters(min, mag gpu.Filter, wrapS, wrapT gpu.Wrap) {
	d.record("TextureParameters", min, mag, wrapS, wrapT)
	tex := d.texture(d.units[0])
	if tex == nil {
		d.fault("TextureParameters with no texture bound")
		return
	}
	tex.min, tex.mag, tex.wrapS, tex.wrapT = min, mag, wrapS, wrapT
}

func (d *Device) UploadTextureData(w, h int, data []byte) error {
	d.record("UploadTextureData", w, h, data != nil)
	tex := d.texture(d.units[0])
	if tex == nil {
		return fmt.Errorf("gputest: no texture bound on unit 0")
	}
	if data != nil && len(data) != w*h {
		return fmt.Errorf("gputest: upload of %d bytes into %dx%d", len(data), w, h)
	}
	tex.w, tex.h = w, h
	tex.data = make([]byte, w*h)
	copy(tex.data, data)
	return nil
}

func (d *Device) CreateFramebuffer() (gpu.Framebuffer, error) {
	d.record("CreateFramebuffer")
	if d.FailFramebuffer {
		return 0, fmt.Errorf("gputest: framebuffer creation disabled")
	}
	d.fbs = append(d.fbs, 0)
	return gpu.Framebuffer(len(d.fbs)), nil
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	d.record("BindFramebuffer", fb)
	d.fb = fb
}

func (d *Device) AttachColorTarget(t gpu.Texture) {
	d.record("AttachColorTarget", t)
	if d.fb == 0 {
		d.fault("AttachColorTarget on the default framebuffer")
		return
	}
	d.fbs[d.fb-1] = t
}

func (d *Device) SetViewport(w, h int) {
	d.record("SetViewport", w, h)
	d.viewport = core.Size{W: w, H: h}
}

// target returns the pixels and size of the current render target.
func (d *Device) target() ([]byte, core.Size) {
	if d.fb == 0 {
		return d.surfaceData, d.surface
	}
	tex := d.texture(d.fbs[d.fb-1])
	if tex == nil {
		d.fault("framebuffer %d has no color attachment", d.fb)
		return nil, core.Size{}
	}
	return tex.data, core.Size{W: tex.w, H: tex.h}
}

func (d *Device) Clear(r, g, b, a float32) {
	d.record("Clear")
	px, _ := d.target()
	v := unorm8(r)
	for i := range px {
		px[i] = v
	}
}

func (d *Device) DrawTriangles(count int) {
	d.record("DrawTriangles", count)
	pr := d.program(d.prog)
	if pr == nil {
		d.fault("DrawTriangles with no program in use")
		return
	}
	fn, ok := d.fragments[d.shaders[pr.fs-1].src]
	if !ok {
		d.fault("DrawTriangles with no fragment function registered for program %d", d.prog)
		return
	}
	if d.buf == 0 || d.layout == 0 || len(d.buffers[d.buf-1]) < count*d.layout {
		d.fault("DrawTriangles(%d) beyond the bound vertex data", count)
		return
	}
	if d.fb != 0 && d.fbs[d.fb-1] == d.units[0] {
		d.fault("DrawTriangles samples texture %d while rendering into it", d.units[0])
		return
	}
	px, size := d.target()
	if px == nil {
		return
	}

	x0, y0, x1, y1 := d.coverage(d.buffers[d.buf-1][:count*d.layout])
	f := &Fragment{dev: d, prog: pr}
	for y := y0; y < y1 && y < size.H; y++ {
		for x := x0; x < x1 && x < size.W; x++ {
			f.X, f.Y = x, y
			px[y*size.W+x] = unorm8(fn(f))
		}
	}
}

// coverage maps the clip-space bounding box of the vertices to a pixel
// rectangle of the viewport. Draws are assumed to be axis-aligned quads.
func (d *Device) coverage(verts []float32) (x0, y0, x1, y1 int) {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for i := 0; i+1 < len(verts); i += d.layout {
		minX, maxX = min(minX, verts[i]), max(maxX, verts[i])
		minY, maxY = min(minY, verts[i+1]), max(maxY, verts[i+1])
	}
	toPx := func(v float32, n int) int {
		c := max(-1, min(1, v))
		return int(math.Round(float64((c + 1) / 2 * float32(n))))
	}
	return toPx(minX, d.viewport.W), toPx(minY, d.viewport.H), toPx(maxX, d.viewport.W), toPx(maxY, d.viewport.H)
}

// unorm8 stores v the way an 8-bit unsigned normalized channel does.
func unorm8(v float32) byte {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(math.Round(float64(v) * 255))
}

var _ gpu.Device = (*Device)(nil)

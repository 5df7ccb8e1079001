//go:build glfw

// Package glgpu implements gpu.Device on OpenGL 4.1 core profile.
//
// The caller must make a GL context current on the calling OS thread before
// New and must keep every later call on that thread.
package glgpu

import (
	"fmt"
	"log/slog"
	"strings"

	"gpulife/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device is a gpu.Device backed by the current GL context.
type Device struct {
	log *slog.Logger
	vao uint32

	prog      gpu.Program
	locations map[gpu.Program]map[string]int32

	shaders  []uint32
	programs []uint32
	buffers  []uint32
	textures []uint32
	fbs      []uint32
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL entry points and binds the one vertex array object core
// profile requires for any draw.
func New(log *slog.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, &gpu.ResourceError{What: "OpenGL context", Err: err}
	}
	if log == nil {
		log = slog.Default()
	}
	d := &Device{log: log, locations: map[gpu.Program]map[string]int32{}}
	gl.GenVertexArrays(1, &d.vao)
	if d.vao == 0 {
		return nil, &gpu.ResourceError{What: "vertex array"}
	}
	gl.BindVertexArray(d.vao)
	log.Info("opengl ready",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return d, nil
}

func (d *Device) Dialect() gpu.Dialect { return gpu.GLSL }

func (d *Device) CreateShader(stage gpu.Stage, src string) (gpu.Shader, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	sh := gl.CreateShader(kind)
	if sh == 0 {
		return 0, &gpu.ResourceError{What: stage.String() + " shader"}
	}
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf *uint8) { gl.GetShaderInfoLog(sh, n, nil, buf) })
		gl.DeleteShader(sh)
		return 0, &gpu.ShaderCompileError{Stage: stage, Log: msg}
	}
	d.shaders = append(d.shaders, sh)
	return gpu.Shader(sh), nil
}

func (d *Device) CreateProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	p := gl.CreateProgram()
	if p == 0 {
		return 0, &gpu.ResourceError{What: "program"}
	}
	gl.AttachShader(p, uint32(vs))
	gl.AttachShader(p, uint32(fs))
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf *uint8) { gl.GetProgramInfoLog(p, n, nil, buf) })
		gl.DeleteProgram(p)
		return 0, &gpu.ProgramLinkError{Log: msg}
	}
	d.programs = append(d.programs, p)
	return gpu.Program(p), nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "(no log)"
	}
	buf := strings.Repeat("\x00", int(n+1))
	read(gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (d *Device) UseProgram(p gpu.Program) {
	d.prog = p
	gl.UseProgram(uint32(p))
}

// location returns the cached uniform location of name in the current
// program. Unknown names resolve to -1, which GL ignores.
func (d *Device) location(name string) int32 {
	m := d.locations[d.prog]
	if m == nil {
		m = map[string]int32{}
		d.locations[d.prog] = m
	}
	loc, ok := m[name]
	if !ok {
		loc = gl.GetUniformLocation(uint32(d.prog), gl.Str(name+"\x00"))
		if loc < 0 {
			d.log.Debug("uniform not active", slog.String("name", name), slog.Uint64("program", uint64(d.prog)))
		}
		m[name] = loc
	}
	return loc
}

func (d *Device) SetUniform1i(name string, v int32) { gl.Uniform1i(d.location(name), v) }

func (d *Device) SetUniform2f(name string, x, y float32) { gl.Uniform2f(d.location(name), x, y) }

func (d *Device) SetUniform1f(name string, v float32) { gl.Uniform1f(d.location(name), v) }

func (d *Device) CreateBuffer() (gpu.Buffer, error) {
	var b uint32
	gl.GenBuffers(1, &b)
	if b == 0 {
		return 0, &gpu.ResourceError{What: "buffer"}
	}
	d.buffers = append(d.buffers, b)
	return gpu.Buffer(b), nil
}

func (d *Device) BindBuffer(b gpu.Buffer) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b)) }

func (d *Device) UploadVertexData(data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) VertexLayout(p gpu.Program, attrib string, components int) error {
	loc := gl.GetAttribLocation(uint32(p), gl.Str(attrib+"\x00"))
	if loc < 0 {
		return fmt.Errorf("glgpu: attribute %q not found in program %d", attrib, p)
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(components), gl.FLOAT, false, 0, gl.PtrOffset(0))
	return nil
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	var t uint32
	gl.GenTextures(1, &t)
	if t == 0 {
		return 0, &gpu.ResourceError{What: "texture"}
	}
	d.textures = append(d.textures, t)
	return gpu.Texture(t), nil
}

// BindTexture binds t on unit and leaves unit 0 active, so parameter and
// upload calls keep targeting unit 0.
func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	if unit != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
	}
}

func (d *Device) TextureParameters(min, mag gpu.Filter, wrapS, wrapT gpu.Wrap) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(min))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(mag))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(wrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(wrapT))
}

func filter(f gpu.Filter) int32 {
	if f == gpu.Linear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func wrap(w gpu.Wrap) int32 {
	if w == gpu.ClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

// UploadTextureData stores w*h single-channel bytes into the texture on
// unit 0. A nil data uploads zeros, since GL leaves a nil upload undefined.
func (d *Device) UploadTextureData(w, h int, data []byte) error {
	if data == nil {
		data = make([]byte, w*h)
	}
	if len(data) < w*h {
		return &gpu.TextureCreateError{W: w, H: h, Reason: fmt.Sprintf("have %d bytes", len(data))}
	}
	drainErrors()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(data))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return &gpu.TextureCreateError{W: w, H: h, Reason: fmt.Sprintf("glTexImage2D error 0x%04x", code)}
	}
	return nil
}

func drainErrors() {
	for i := 0; i < 16 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

func (d *Device) CreateFramebuffer() (gpu.Framebuffer, error) {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	if fb == 0 {
		return 0, &gpu.ResourceError{What: "framebuffer"}
	}
	d.fbs = append(d.fbs, fb)
	return gpu.Framebuffer(fb), nil
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb)) }

func (d *Device) AttachColorTarget(t gpu.Texture) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(t), 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		d.log.Warn("framebuffer incomplete", slog.Uint64("texture", uint64(t)), slog.String("status", fmt.Sprintf("0x%04x", status)))
	}
}

func (d *Device) SetViewport(w, h int) { gl.Viewport(0, 0, int32(w), int32(h)) }

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawTriangles(count int) { gl.DrawArrays(gl.TRIANGLES, 0, int32(count)) }

// Release deletes every object the device created.
func (d *Device) Release() {
	for _, fb := range d.fbs {
		gl.DeleteFramebuffers(1, &fb)
	}
	for _, t := range d.textures {
		gl.DeleteTextures(1, &t)
	}
	for _, b := range d.buffers {
		gl.DeleteBuffers(1, &b)
	}
	for _, p := range d.programs {
		gl.DeleteProgram(p)
	}
	for _, s := range d.shaders {
		gl.DeleteShader(s)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	d.fbs, d.textures, d.buffers, d.programs, d.shaders = nil, nil, nil, nil, nil
	d.vao = 0
	d.locations = map[gpu.Program]map[string]int32{}
}

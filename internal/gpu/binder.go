package gpu

import (
	"errors"
	"fmt"
)

// Binder creates and configures device objects. It holds no state of its
// own beyond the device; every method is a factory call.
type Binder struct {
	dev Device
}

// NewBinder returns a Binder for dev.
func NewBinder(dev Device) *Binder { return &Binder{dev: dev} }

// CompileShader compiles one stage. A failure is always a *ShaderCompileError
// with the backend log, or a *ResourceError if no shader object could be made.
func (b *Binder) CompileShader(stage Stage, src string) (Shader, error) {
	sh, err := b.dev.CreateShader(stage, src)
	if err == nil {
		return sh, nil
	}
	var ce *ShaderCompileError
	var re *ResourceError
	if errors.As(err, &ce) || errors.As(err, &re) {
		return 0, err
	}
	return 0, &ShaderCompileError{Stage: stage, Log: err.Error()}
}

// LinkProgram links a vertex and fragment shader into a program.
func (b *Binder) LinkProgram(vs, fs Shader) (Program, error) {
	p, err := b.dev.CreateProgram(vs, fs)
	if err == nil {
		return p, nil
	}
	var le *ProgramLinkError
	var re *ResourceError
	if errors.As(err, &le) || errors.As(err, &re) {
		return 0, err
	}
	return 0, &ProgramLinkError{Log: err.Error()}
}

// CreateTexture allocates a one-channel 8-bit texture of w*h texels with
// nearest filtering and repeat wrapping on both axes, bound on unit 0.
// A nil data leaves every texel at zero; otherwise data must hold exactly
// w*h bytes and is uploaded verbatim.
func (b *Binder) CreateTexture(w, h int, data []byte) (Texture, error) {
	if w <= 0 || h <= 0 {
		return 0, &TextureCreateError{W: w, H: h, Reason: "dimensions must be positive"}
	}
	if data != nil && len(data) != w*h {
		return 0, &TextureCreateError{W: w, H: h, Reason: fmt.Sprintf("initial data has %d bytes, expected %d", len(data), w*h)}
	}
	t, err := b.dev.CreateTexture()
	if err != nil {
		return 0, &TextureCreateError{W: w, H: h, Reason: err.Error()}
	}
	b.dev.BindTexture(0, t)
	if err := b.dev.UploadTextureData(w, h, data); err != nil {
		var te *TextureCreateError
		if errors.As(err, &te) {
			return 0, err
		}
		return 0, &TextureCreateError{W: w, H: h, Reason: err.Error()}
	}
	b.dev.TextureParameters(Nearest, Nearest, Repeat, Repeat)
	return t, nil
}

// CreateQuad uploads QuadVertices into a new buffer and wires it to the
// two-component attribute of p. The buffer stays bound.
func (b *Binder) CreateQuad(p Program, attrib string) (Buffer, error) {
	buf, err := b.dev.CreateBuffer()
	if err != nil {
		return 0, &ResourceError{What: "vertex buffer", Err: err}
	}
	b.dev.BindBuffer(buf)
	b.dev.UploadVertexData(QuadVertices)
	if err := b.dev.VertexLayout(p, attrib, QuadComponents); err != nil {
		return 0, &ResourceError{What: "vertex layout for " + attrib, Err: err}
	}
	return buf, nil
}

// CreateFramebuffer creates the off-screen render target.
func (b *Binder) CreateFramebuffer() (Framebuffer, error) {
	fb, err := b.dev.CreateFramebuffer()
	if err != nil {
		return 0, &ResourceError{What: "framebuffer", Err: err}
	}
	return fb, nil
}

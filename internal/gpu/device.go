// Package gpu defines the rasterization context the simulation runs on and
// the resource binder that creates its objects.
//
// A Device mirrors the small slice of a GL-style API the engine needs:
// viewport and clear, one vertex buffer, 2D textures, one framebuffer,
// vertex+fragment programs and scalar uniforms. No depth, stencil, blending
// or multisampling is required. Handles are opaque and the zero value of
// every handle type means "none"; the zero Framebuffer is the visible surface.
//
// A Device is not safe for concurrent use. All calls must come from the
// goroutine that owns the backend context.
package gpu

import "fmt"

// Stage identifies a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Filter is a texture sampling filter.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// Wrap is a texture addressing mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
)

// Dialect names the shading language a Device compiles.
type Dialect string

const (
	// GLSL is OpenGL 4.1 core profile GLSL.
	GLSL Dialect = "glsl"
	// Kage is ebiten's shading language.
	Kage Dialect = "kage"
)

type (
	Shader      uint32
	Program     uint32
	Buffer      uint32
	Texture     uint32
	Framebuffer uint32
)

// DefaultFramebuffer is the visible surface.
const DefaultFramebuffer Framebuffer = 0

// Device is the rasterization context consumed by the engine.
//
// Uniform setters apply to the program last passed to UseProgram. Texture
// parameter and upload calls apply to the texture bound on unit 0.
// AttachColorTarget applies to the bound framebuffer.
type Device interface {
	Dialect() Dialect

	CreateShader(stage Stage, src string) (Shader, error)
	CreateProgram(vs, fs Shader) (Program, error)
	UseProgram(p Program)
	SetUniform1i(name string, v int32)
	SetUniform2f(name string, x, y float32)
	SetUniform1f(name string, v float32)

	CreateBuffer() (Buffer, error)
	BindBuffer(b Buffer)
	UploadVertexData(data []float32)
	VertexLayout(p Program, attrib string, components int) error

	CreateTexture() (Texture, error)
	BindTexture(unit int, t Texture)
	TextureParameters(min, mag Filter, wrapS, wrapT Wrap)
	UploadTextureData(w, h int, data []byte) error

	CreateFramebuffer() (Framebuffer, error)
	BindFramebuffer(fb Framebuffer)
	AttachColorTarget(t Texture)

	SetViewport(w, h int)
	Clear(r, g, b, a float32)
	DrawTriangles(count int)
}

// QuadVertices is a full-screen quad in clip space: two triangles of
// two-component positions covering [-1,1]x[-1,1].
var QuadVertices = []float32{
	-1, -1, 1, -1, -1, 1,
	1, -1, 1, 1, -1, 1,
}

const (
	// QuadComponents is the number of floats per quad vertex.
	QuadComponents = 2
	// QuadVertexCount is the number of vertices drawn for the quad.
	QuadVertexCount = 6
)

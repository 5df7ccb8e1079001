package gputest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpulife/internal/core"
	"gpulife/internal/gpu"
)

func TestUnorm8Clamps(t *testing.T) {
	assert.Equal(t, byte(0), unorm8(-0.85))
	assert.Equal(t, byte(153), unorm8(0.60))
	assert.Equal(t, byte(38), unorm8(0.15))
	assert.Equal(t, byte(255), unorm8(1.60))
}

func newProgram(t *testing.T, d *Device, src string, fn FragmentFunc) gpu.Program {
	t.Helper()
	vs, err := d.CreateShader(gpu.VertexStage, "vs")
	require.NoError(t, err)
	fs, err := d.CreateShader(gpu.FragmentStage, src)
	require.NoError(t, err)
	p, err := d.CreateProgram(vs, fs)
	require.NoError(t, err)
	d.Register(src, fn)
	return p
}

func TestDrawCoversViewportOfTarget(t *testing.T) {
	d := New(core.Size{W: 4, H: 4})
	p := newProgram(t, d, "fill", func(f *Fragment) float32 { return float32(f.X+f.Y) / 10 })
	b := gpu.NewBinder(d)
	_, err := b.CreateQuad(p, "position")
	require.NoError(t, err)

	d.UseProgram(p)
	d.SetViewport(2, 2)
	d.DrawTriangles(gpu.QuadVertexCount)

	surface := d.Surface()
	assert.Equal(t, byte(0), surface[0])
	assert.Equal(t, unorm8(0.1), surface[1])
	assert.Equal(t, unorm8(0.2), surface[1*4+1])
	assert.Equal(t, byte(0), surface[2], "pixels outside the viewport stay untouched")
	assert.Empty(t, d.Faults())
}

func TestDrawIntoSampledTextureFaults(t *testing.T) {
	d := New(core.Size{W: 2, H: 2})
	p := newProgram(t, d, "copy", func(f *Fragment) float32 { return f.Fetch(f.X, f.Y) })
	b := gpu.NewBinder(d)
	_, err := b.CreateQuad(p, "position")
	require.NoError(t, err)
	tex, err := b.CreateTexture(2, 2, nil)
	require.NoError(t, err)
	fb, err := b.CreateFramebuffer()
	require.NoError(t, err)

	d.UseProgram(p)
	d.BindFramebuffer(fb)
	d.AttachColorTarget(tex)
	d.DrawTriangles(gpu.QuadVertexCount)
	assert.Len(t, d.Faults(), 1)
}

func TestFetchOutOfRangeIsZero(t *testing.T) {
	d := New(core.Size{W: 1, H: 1})
	b := gpu.NewBinder(d)
	_, err := b.CreateTexture(2, 1, []byte{255, 255})
	require.NoError(t, err)
	f := &Fragment{dev: d}
	assert.Equal(t, float32(1), f.Fetch(1, 0))
	assert.Equal(t, float32(0), f.Fetch(2, 0))
	assert.Equal(t, float32(0), f.Fetch(-1, 0))
}

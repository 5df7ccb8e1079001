package gpu_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpulife/internal/core"
	"gpulife/internal/gpu"
	"gpulife/internal/gpu/gputest"
)

func TestCompileFailureKeepsLog(t *testing.T) {
	d := gputest.New(core.Size{W: 1, H: 1})
	d.CompileLogs = map[gpu.Stage]string{gpu.FragmentStage: "0:3(12): error: `u_sise' undeclared"}
	b := gpu.NewBinder(d)

	_, err := b.CompileShader(gpu.VertexStage, "void main() {}")
	require.NoError(t, err)

	_, err = b.CompileShader(gpu.FragmentStage, "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrShaderCompile))
	var ce *gpu.ShaderCompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.FragmentStage, ce.Stage)
	assert.Equal(t, "0:3(12): error: `u_sise' undeclared", ce.Log)
	assert.Contains(t, err.Error(), "u_sise")
}

func TestLinkFailureKeepsLog(t *testing.T) {
	d := gputest.New(core.Size{W: 1, H: 1})
	b := gpu.NewBinder(d)
	vs, err := b.CompileShader(gpu.VertexStage, "vs")
	require.NoError(t, err)
	fs, err := b.CompileShader(gpu.FragmentStage, "fs")
	require.NoError(t, err)

	d.LinkLog = "error: vertex output `v' not read by fragment"
	_, err = b.LinkProgram(vs, fs)
	var le *gpu.ProgramLinkError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, d.LinkLog, le.Log)
	assert.True(t, errors.Is(err, gpu.ErrProgramLink))

	d.LinkLog = ""
	_, err = b.LinkProgram(fs, vs)
	assert.True(t, errors.Is(err, gpu.ErrProgramLink), "swapped stages must not link")
}

func TestCreateTextureConfiguresSampling(t *testing.T) {
	d := gputest.New(core.Size{W: 1, H: 1})
	b := gpu.NewBinder(d)

	tex, err := b.CreateTexture(3, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, tex, d.Bound(), "creation binds the texture on unit 0")
	assert.Equal(t, core.Size{W: 3, H: 2}, d.TextureSize(tex))
	assert.Equal(t, make([]byte, 6), d.TextureData(tex), "absent data means all dead")

	min, mag, ws, wt := d.TextureParams(tex)
	assert.Equal(t, gpu.Nearest, min)
	assert.Equal(t, gpu.Nearest, mag)
	assert.Equal(t, gpu.Repeat, ws)
	assert.Equal(t, gpu.Repeat, wt)

	data := []byte{0, 255, 7, 9, 1, 2}
	seeded, err := b.CreateTexture(3, 2, data)
	require.NoError(t, err)
	assert.Equal(t, data, d.TextureData(seeded))
}

func TestCreateTextureRejectsBadData(t *testing.T) {
	d := gputest.New(core.Size{W: 1, H: 1})
	b := gpu.NewBinder(d)

	_, err := b.CreateTexture(3, 2, []byte{1, 2, 3})
	var te *gpu.TextureCreateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.W)
	assert.True(t, errors.Is(err, gpu.ErrTextureCreate))

	_, err = b.CreateTexture(0, 2, nil)
	assert.True(t, errors.Is(err, gpu.ErrTextureCreate))
}

func TestCreateFramebufferFailure(t *testing.T) {
	d := gputest.New(core.Size{W: 1, H: 1})
	d.FailFramebuffer = true
	_, err := gpu.NewBinder(d).CreateFramebuffer()
	assert.True(t, errors.Is(err, gpu.ErrResourceAcquisition))
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", gpu.VertexStage.String())
	assert.Equal(t, "fragment", gpu.FragmentStage.String())
	assert.Equal(t, "Stage(9)", gpu.Stage(9).String())
}

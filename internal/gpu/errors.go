package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceAcquisition matches any failure to create a context,
	// surface, buffer, framebuffer or other backend object.
	ErrResourceAcquisition = errors.New("gpu: resource acquisition failed")
	// ErrShaderCompile matches every ShaderCompileError.
	ErrShaderCompile = errors.New("gpu: shader compile failed")
	// ErrProgramLink matches every ProgramLinkError.
	ErrProgramLink = errors.New("gpu: program link failed")
	// ErrTextureCreate matches every TextureCreateError.
	ErrTextureCreate = errors.New("gpu: texture create failed")
)

// ResourceError reports that a backend object could not be created.
type ResourceError struct {
	What string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gpu: could not create %s", e.What)
	}
	return fmt.Sprintf("gpu: could not create %s: %v", e.What, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResourceAcquisition}
	}
	return []error{ErrResourceAcquisition, e.Err}
}

// ShaderCompileError carries the backend's compile log verbatim.
type ShaderCompileError struct {
	Stage Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("gpu: %s shader failed to compile:\n%s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Unwrap() error { return ErrShaderCompile }

// ProgramLinkError carries the backend's link log verbatim.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("gpu: program failed to link:\n%s", e.Log)
}

func (e *ProgramLinkError) Unwrap() error { return ErrProgramLink }

// TextureCreateError reports a texture that could not be allocated or filled.
type TextureCreateError struct {
	W, H   int
	Reason string
}

func (e *TextureCreateError) Error() string {
	return fmt.Sprintf("gpu: texture %dx%d: %s", e.W, e.H, e.Reason)
}

func (e *TextureCreateError) Unwrap() error { return ErrTextureCreate }

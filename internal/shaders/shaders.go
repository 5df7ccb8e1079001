// Package shaders renders the compute and display shader sources for each
// device dialect. Rule constants come from package life.
package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"gpulife/internal/gpu"
	"gpulife/internal/life"
)

// Names bound by both programs.
const (
	Position = "position"
	Texture  = "Texture"
	Size     = "Size"
	Scale    = "Scale"
)

//go:embed glsl kage
var files embed.FS

// Set holds the sources of one dialect. Vertex is empty for dialects whose
// backend supplies its own vertex stage.
type Set struct {
	Dialect gpu.Dialect
	Vertex  string
	Compute string
	Display string
}

type params struct {
	Position, Texture, Size, Scale string
	Threshold, DeadBias, FadeGain  string
}

var layouts = map[gpu.Dialect][3]string{
	gpu.GLSL: {"glsl/quad.vert", "glsl/compute.frag", "glsl/display.frag"},
	gpu.Kage: {"", "kage/compute.kage", "kage/display.kage"},
}

// For renders the shader set of dialect.
func For(dialect gpu.Dialect) (Set, error) {
	layout, ok := layouts[dialect]
	if !ok {
		return Set{}, fmt.Errorf("shaders: no sources for dialect %q", dialect)
	}
	p := params{
		Position:  Position,
		Texture:   Texture,
		Size:      Size,
		Scale:     Scale,
		Threshold: float(life.Threshold),
		DeadBias:  float(life.DeadBias),
		FadeGain:  float(life.FadeGain),
	}
	var out [3]string
	for i, name := range layout {
		if name == "" {
			continue
		}
		src, err := render(name, p)
		if err != nil {
			return Set{}, err
		}
		out[i] = src
	}
	return Set{Dialect: dialect, Vertex: out[0], Compute: out[1], Display: out[2]}, nil
}

func render(name string, p params) (string, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("shaders: %w", err)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("shaders: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("shaders: render %s: %w", name, err)
	}
	return buf.String(), nil
}

// float formats v as a literal both GLSL and Kage read as floating point.
func float(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

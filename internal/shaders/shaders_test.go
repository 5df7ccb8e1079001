package shaders

import (
	"strings"
	"testing"

	"gpulife/internal/gpu"
)

func TestGLSLSet(t *testing.T) {
	set, err := For(gpu.GLSL)
	if err != nil {
		t.Fatal(err)
	}
	for name, src := range map[string]string{"vertex": set.Vertex, "compute": set.Compute, "display": set.Display} {
		if !strings.HasPrefix(src, "#version 410 core") {
			t.Fatalf("%s source should start with the version directive, got %q", name, firstLine(src))
		}
		if strings.Contains(src, "{{") {
			t.Fatalf("%s source has unrendered template actions", name)
		}
	}
	for _, want := range []string{"uniform vec2 Size;", "> 0.5", "- 0.85 + 1.45 *", "mod(gl_FragCoord.xy"} {
		if !strings.Contains(set.Compute, want) {
			t.Fatalf("compute source missing %q", want)
		}
	}
	if !strings.Contains(set.Display, "gl_FragCoord.xy / Scale") {
		t.Fatal("display source should divide the fragment coordinate by the scale")
	}
	if !strings.Contains(set.Vertex, "in vec4 position;") {
		t.Fatal("vertex source should declare the position attribute")
	}
}

func TestKageSet(t *testing.T) {
	set, err := For(gpu.Kage)
	if err != nil {
		t.Fatal(err)
	}
	if set.Vertex != "" {
		t.Fatal("kage has no user vertex stage")
	}
	for _, src := range []string{set.Compute, set.Display} {
		if !strings.HasPrefix(src, "//kage:unit pixels") {
			t.Fatalf("kage source should opt into pixel units, got %q", firstLine(src))
		}
	}
	if !strings.Contains(set.Compute, "var Size vec2") || !strings.Contains(set.Compute, "mod(pos-vec2") {
		t.Fatal("kage compute source should wrap fetches modulo Size")
	}
	if !strings.Contains(set.Display, "var Scale float") {
		t.Fatal("kage display source should declare Scale")
	}
}

func TestUnknownDialect(t *testing.T) {
	if _, err := For("hlsl"); err == nil {
		t.Fatal("expected an error for an unknown dialect")
	}
}

func TestFloatLiteral(t *testing.T) {
	cases := map[float64]string{0.5: "0.5", 1: "1.0", 1.45: "1.45", 0.85: "0.85"}
	for in, want := range cases {
		if got := float(in); got != want {
			t.Fatalf("float(%v) = %q, expected %q", in, got, want)
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

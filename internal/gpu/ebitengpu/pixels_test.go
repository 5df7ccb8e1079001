package ebitengpu

import (
	"image/color"
	"testing"

	"gpulife/internal/gpu"
)

func TestFillRedRGBA(t *testing.T) {
	cells := []uint8{0, 153, 38, 255}
	buf := make([]byte, 4*len(cells))
	fillRedRGBA(buf, cells)
	want := []byte{
		0, 0, 0, 255,
		153, 0, 0, 255,
		38, 0, 0, 255,
		255, 0, 0, 255,
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestClearColor(t *testing.T) {
	if got := clearColor(0, 0, 0, 1); got != (color.RGBA{A: 255}) {
		t.Fatalf("opaque black = %v", got)
	}
	if got := clearColor(2, -1, 0.6, 1); got != (color.RGBA{R: 255, G: 0, B: 153, A: 255}) {
		t.Fatalf("clamped = %v", got)
	}
}

func TestPixelPositionsCoversViewport(t *testing.T) {
	pos := pixelPositions(gpu.QuadVertices, gpu.QuadComponents, gpu.QuadVertexCount, 40, 30)
	if len(pos) != gpu.QuadVertexCount {
		t.Fatalf("got %d vertices", len(pos))
	}
	minX, minY, maxX, maxY := pos[0][0], pos[0][1], pos[0][0], pos[0][1]
	for _, p := range pos {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	if minX != 0 || minY != 0 || maxX != 40 || maxY != 30 {
		t.Fatalf("quad spans (%v,%v)-(%v,%v), want (0,0)-(40,30)", minX, minY, maxX, maxY)
	}
	// (-1,-1) is the bottom-left corner in clip space.
	if pos[0] != [2]float32{0, 30} {
		t.Fatalf("first vertex = %v", pos[0])
	}
}

func TestPixelPositionsTruncatesShortData(t *testing.T) {
	pos := pixelPositions([]float32{0, 0, 1, 1, 5}, 2, 6, 10, 10)
	if len(pos) != 2 {
		t.Fatalf("got %d vertices, want 2", len(pos))
	}
	if pos[0] != [2]float32{5, 5} || pos[1] != [2]float32{10, 0} {
		t.Fatalf("positions = %v", pos)
	}
}

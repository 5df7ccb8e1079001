// Package seed produces initial state buffers for the simulation textures.
// Every buffer has one byte per cell, row-major, with Alive or 0.
package seed

import (
	"fmt"
	"sort"
	"strings"

	"gpulife/internal/core"
)

// Alive is the byte written for a live cell.
const Alive = 255

// Random fills a grid of the given size with live cells at the given density.
func Random(size core.Size, seed int64, density float64) []byte {
	buf := make([]byte, size.Area())
	core.NewRNG(seed).FillDensity(buf, density, Alive)
	return buf
}

// Empty returns an all-dead buffer.
func Empty(size core.Size) []byte { return make([]byte, size.Area()) }

type placer func(g *core.ByteGrid)

var patterns = map[string]placer{
	"block": func(g *core.ByteGrid) {
		cx, cy := g.W/2, g.H/2
		stamp(g, cx, cy, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
	},
	"blinker": func(g *core.ByteGrid) {
		cx, cy := g.W/2, g.H/2
		stamp(g, cx, cy, [][2]int{{0, -1}, {0, 0}, {0, 1}})
	},
	"glider": func(g *core.ByteGrid) {
		cx, cy := g.W/2, g.H/2
		stamp(g, cx, cy, [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}})
	},
	// A block that is only a block across the torus seams.
	"wrapblock": func(g *core.ByteGrid) {
		stamp(g, 0, 0, [][2]int{{0, 0}, {-1, 0}, {0, -1}, {-1, -1}})
	},
}

func stamp(g *core.ByteGrid, x, y int, cells [][2]int) {
	for _, c := range cells {
		g.Set(x+c[0], y+c[1], Alive)
	}
}

// Pattern returns a buffer holding the named pattern on an otherwise dead grid.
func Pattern(size core.Size, name string) ([]byte, error) {
	place, ok := patterns[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("seed: unknown pattern %q (have %s)", name, strings.Join(Patterns(), ", "))
	}
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("seed: pattern %q needs a non-empty grid, got %v", name, size)
	}
	g := core.NewByteGrid(size)
	place(g)
	return g.Cells(), nil
}

// Patterns lists the available pattern names.
func Patterns() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScale is returned for a pixel-block factor below 1.
	ErrInvalidScale = errors.New("core: pixel scale must be at least 1")
	// ErrEmptyGrid is returned when a derived simulation grid has no cells.
	ErrEmptyGrid = errors.New("core: simulation grid is empty")
)

// Size describes the dimensions of a surface or simulation grid.
type Size struct {
	W int
	H int
}

// Area returns W*H.
func (s Size) Area() int { return s.W * s.H }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// SimSize derives the simulation grid from the display size and the
// pixel-block factor k: each axis is display/k, floored.
func SimSize(display Size, k int) (Size, error) {
	if k < 1 {
		return Size{}, fmt.Errorf("%w: got %d", ErrInvalidScale, k)
	}
	sim := Size{W: display.W / k, H: display.H / k}
	if sim.W <= 0 || sim.H <= 0 {
		return Size{}, fmt.Errorf("%w: display %v at scale %d", ErrEmptyGrid, display, k)
	}
	return sim, nil
}

// AlignedDisplay rounds display down to a whole number of k*k blocks.
func AlignedDisplay(display Size, k int) (Size, error) {
	sim, err := SimSize(display, k)
	if err != nil {
		return Size{}, err
	}
	return Size{W: sim.W * k, H: sim.H * k}, nil
}

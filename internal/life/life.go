// Package life holds the Game of Life rule and the fade encoding written by
// the compute pass. The shader sources are rendered from these constants.
package life

const (
	// Threshold separates alive (> Threshold) from dead stored values.
	Threshold = 0.5
	// DeadBias is subtracted from every encoded value.
	DeadBias = 0.85
	// FadeGain is added when the cell is alive in the next generation.
	FadeGain = 1.45
)

// Offsets lists the Moore neighborhood in the order the compute shader samples it.
var Offsets = [8][2]int{
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
}

// IsAlive booleanizes a sampled state value.
func IsAlive(v float32) bool { return v > Threshold }

// NextAlive applies the B3/S23 rule to a cell with n live neighbors.
func NextAlive(alive bool, n int) bool {
	return n == 3 || (alive && n == 2)
}

// Encode returns the value the compute pass writes for a cell. The four
// (alive, next) combinations map to -0.85, 0.60, 0.15 and 1.60; storage
// formats clamp them.
func Encode(alive, next bool) float32 {
	return b2f(alive) - DeadBias + FadeGain*b2f(next)
}

// Neighbors counts live cells among the eight offsets reported by at.
func Neighbors(at func(dx, dy int) bool) int {
	n := 0
	for _, o := range Offsets {
		if at(o[0], o[1]) {
			n++
		}
	}
	return n
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

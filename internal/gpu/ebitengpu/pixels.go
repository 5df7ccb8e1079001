package ebitengpu

import "image/color"

// fillRedRGBA expands single-channel texels into opaque RGBA pixels in buf,
// carrying each texel in the red channel. buf must hold 4*len(cells) bytes.
func fillRedRGBA(buf []byte, cells []uint8) {
	for i, c := range cells {
		base := i * 4
		buf[base+0] = c
		buf[base+1] = 0
		buf[base+2] = 0
		buf[base+3] = 0xff
	}
}

// clearColor converts normalized clear components to an 8-bit color,
// clamping each to [0,1].
func clearColor(r, g, b, a float32) color.RGBA {
	return color.RGBA{R: unorm8(r * a), G: unorm8(g * a), B: unorm8(b * a), A: unorm8(a)}
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

// pixelPositions maps the first count clip-space vertices of data into the
// pixel space of a w*h viewport whose top-left is (0,0). Clip y grows up,
// pixel y grows down.
func pixelPositions(data []float32, components, count, w, h int) [][2]float32 {
	if components < 2 {
		components = 2
	}
	if n := len(data) / components; count > n {
		count = n
	}
	out := make([][2]float32, count)
	for i := range out {
		x := data[i*components]
		y := data[i*components+1]
		out[i] = [2]float32{
			(x + 1) / 2 * float32(w),
			(1 - y) / 2 * float32(h),
		}
	}
	return out
}

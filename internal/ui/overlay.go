//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws a small text panel in the top-left corner of the screen.
type Overlay struct {
	pixel *ebiten.Image
	bg    color.RGBA
	fg    color.RGBA
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{
		bg: color.RGBA{R: 16, G: 16, B: 20, A: 200},
		fg: color.RGBA{R: 220, G: 220, B: 230, A: 255},
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Draw renders lines onto screen above a translucent backing panel.
func (o *Overlay) Draw(screen *ebiten.Image, lines ...string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	l := Measure(lines, func(s string) int { return text.BoundString(face, s).Dx() })

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(l.Width), float64(l.Height))
	op.GeoM.Translate(float64(l.X), float64(l.Y))
	op.ColorScale.ScaleWithColor(o.bg)
	screen.DrawImage(o.pixel, op)

	for i, line := range lines {
		text.Draw(screen, line, face, l.X+panelPadding, l.Baselines[i], o.fg)
	}
}

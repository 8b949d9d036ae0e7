package particle

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the fixed four-colour set particles draw from.
type Palette [4]color.NRGBA

// Hues of the palette entries: pink, cyan, yellow, purple.
var paletteHues = [4]float64{310, 180, 60, 280}

// NewPalette builds the palette for a colour intensity in [0,100], used as
// the HSL lightness of fully saturated hues.
func NewPalette(colorIntensity int) Palette {
	l := float64(colorIntensity) / 100
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	var p Palette
	for i, h := range paletteHues {
		r, g, b := colorful.Hsl(h, 1, l).Clamped().RGB255()
		p[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// At returns entry i wrapped onto the palette.
func (p Palette) At(i int) color.NRGBA {
	return p[((i%len(p))+len(p))%len(p)]
}

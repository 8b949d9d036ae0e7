package surface

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Filter is the display-only post-processing applied when a frame is
// presented. It never touches the persistent surface.
type Filter struct {
	Blur       float64 // gaussian sigma in pixels
	Saturation float64 // 1 leaves colours unchanged
}

// Present returns a filtered copy of the surface.
func (s *Surface) Present(f Filter) *image.NRGBA {
	out := imaging.Clone(s.img)
	if f.Saturation != 1 {
		out = imaging.AdjustFunc(out, saturate(f.Saturation))
	}
	if f.Blur > 0 {
		out = imaging.Blur(out, f.Blur)
	}
	return out
}

// saturate applies the standard saturate colour matrix.
func saturate(amount float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		nr := (0.213+0.787*amount)*r + (0.715-0.715*amount)*g + (0.072-0.072*amount)*b
		ng := (0.213-0.213*amount)*r + (0.715+0.285*amount)*g + (0.072-0.072*amount)*b
		nb := (0.213-0.213*amount)*r + (0.715-0.715*amount)*g + (0.072+0.928*amount)*b
		return color.NRGBA{R: clamp8(nr), G: clamp8(ng), B: clamp8(nb), A: c.A}
	}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

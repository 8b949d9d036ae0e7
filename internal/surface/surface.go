// Package surface is the persistent raster the visual modes paint into.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

// ErrUnavailable is returned when a surface cannot be acquired.
var ErrUnavailable = errors.New("surface unavailable")

// Background is the colour the fade pre-step paints with.
var Background = color.NRGBA{R: 15, G: 13, B: 26, A: 255}

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Surface wraps an RGBA buffer and a drawing context over it. Its content
// persists between frames.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

// New allocates a width x height surface cleared to Background.
func New(width, height int) (*Surface, error) {
	s := &Surface{}
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image exposes the underlying buffer.
func (s *Surface) Image() *image.RGBA { return s.img }

// Resize reallocates the buffer when the dimensions change. Like a canvas,
// a resized surface starts out cleared.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrUnavailable, width, height)
	}
	if s.img != nil && s.Width() == width && s.Height() == height {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.dc = gg.NewContextForRGBA(s.img)
	s.Clear()
	return nil
}

// Clear fills the whole surface with Background.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

// Fade paints Background over the whole surface with the given opacity,
// leaving trails of earlier frames behind.
func (s *Surface) Fade(alpha float64) {
	a := clampAlpha(alpha)
	if a == 0 {
		return
	}
	c := Background
	c.A = a
	s.dc.SetColor(c)
	s.dc.DrawRectangle(0, 0, float64(s.Width()), float64(s.Height()))
	s.dc.Fill()
}

// Circle fills a disc, surrounded by a translucent halo glow pixels wide.
func (s *Surface) Circle(x, y, r float64, c color.NRGBA, glow float64) {
	if r <= 0 {
		return
	}
	s.halo(x, y, r, c, glow)
	s.dc.SetColor(c)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

// Gradient fills a disc fading from c at the centre to transparent at r.
func (s *Surface) Gradient(x, y, r float64, c color.NRGBA, glow float64) {
	if r <= 0 {
		return
	}
	s.halo(x, y, r, c, glow)
	g := gg.NewRadialGradient(x, y, 0, x, y, r)
	g.AddColorStop(0, c)
	g.AddColorStop(1, withAlpha(c, 0))
	s.dc.SetFillStyle(g)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

// Polyline strokes connected segments through pts. A positive glow first
// lays down a wider translucent stroke.
func (s *Surface) Polyline(pts []Point, c color.NRGBA, width, glow float64) {
	if len(pts) < 2 {
		return
	}
	if glow > 0 {
		s.path(pts)
		s.dc.SetColor(withAlpha(c, c.A/4))
		s.dc.SetLineWidth(width + glow)
		s.dc.Stroke()
	}
	s.path(pts)
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

// ShearStrip copies the full-width strip of rows [y, y+height) and writes
// it back shifted horizontally by dx, replacing what was there.
func (s *Surface) ShearStrip(y, height, dx int) {
	r := image.Rect(0, y, s.Width(), y+height).Intersect(s.img.Bounds())
	if r.Empty() || dx == 0 {
		return
	}
	strip := image.NewRGBA(r)
	draw.Draw(strip, r, s.img, r.Min, draw.Src)
	draw.Draw(s.img, r.Add(image.Pt(dx, 0)), strip, r.Min, draw.Src)
}

func (s *Surface) path(pts []Point) {
	s.dc.NewSubPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
}

func (s *Surface) halo(x, y, r float64, c color.NRGBA, glow float64) {
	if glow <= 0 {
		return
	}
	outer := r + glow
	g := gg.NewRadialGradient(x, y, 0, x, y, outer)
	g.AddColorStop(r/outer, withAlpha(c, c.A/2))
	g.AddColorStop(1, withAlpha(c, 0))
	s.dc.SetFillStyle(g)
	s.dc.DrawCircle(x, y, outer)
	s.dc.Fill()
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func clampAlpha(a float64) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}

package surface

import (
	"errors"
	"image/color"
	"testing"
)

func TestNewRejectsEmptySurface(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable for %v, got %v", dims, err)
		}
	}
}

func TestNewStartsCleared(t *testing.T) {
	s, err := New(4, 3)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	c := s.Image().RGBAAt(2, 1)
	if c.R != Background.R || c.G != Background.G || c.B != Background.B || c.A != 255 {
		t.Fatalf("expected background colour, got %v", c)
	}
}

func TestResizeKeepsBufferWhenUnchanged(t *testing.T) {
	s, _ := New(8, 8)
	img := s.Image()
	if err := s.Resize(8, 8); err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	if s.Image() != img {
		t.Fatal("expected same buffer for unchanged size")
	}
	if err := s.Resize(16, 4); err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	if s.Width() != 16 || s.Height() != 4 {
		t.Fatalf("expected 16x4, got %dx%d", s.Width(), s.Height())
	}
}

func TestFadeFullyOpaqueRestoresBackground(t *testing.T) {
	s, _ := New(10, 10)
	s.Circle(5, 5, 4, color.NRGBA{R: 255, A: 255}, 0)
	if got := s.Image().RGBAAt(5, 5); got.R != 255 {
		t.Fatalf("expected red pixel after circle, got %v", got)
	}
	s.Fade(1)
	if got := s.Image().RGBAAt(5, 5); got.R != Background.R {
		t.Fatalf("expected opaque fade to restore background, got %v", got)
	}
}

func TestFadeZeroKeepsTrails(t *testing.T) {
	s, _ := New(10, 10)
	s.Circle(5, 5, 4, color.NRGBA{G: 255, A: 255}, 0)
	s.Fade(0)
	if got := s.Image().RGBAAt(5, 5); got.G != 255 {
		t.Fatalf("expected transparent fade to keep pixel, got %v", got)
	}
}

func TestShearStripShiftsRows(t *testing.T) {
	s, _ := New(10, 4)
	img := s.Image()
	marker := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	img.SetRGBA(2, 1, marker)
	img.SetRGBA(2, 3, marker)

	s.ShearStrip(1, 2, 3)

	if got := img.RGBAAt(5, 1); got != marker {
		t.Fatalf("expected marker shifted to x=5, got %v", got)
	}
	if got := img.RGBAAt(5, 3); got == marker {
		t.Fatal("expected row outside the strip to stay put")
	}
	if got := img.RGBAAt(2, 3); got != marker {
		t.Fatal("expected untouched row to keep its marker")
	}
}

func TestShearStripClipsOutsideSurface(t *testing.T) {
	s, _ := New(10, 4)
	s.ShearStrip(3, 60, -50)
	s.ShearStrip(40, 10, 5)
}

func TestPresentSaturationIdentity(t *testing.T) {
	s, _ := New(2, 2)
	s.Image().SetRGBA(0, 0, color.RGBA{R: 120, G: 60, B: 30, A: 255})
	out := s.Present(Filter{Saturation: 1})
	if got := out.NRGBAAt(0, 0); got.R != 120 || got.G != 60 || got.B != 30 {
		t.Fatalf("expected unchanged pixel, got %v", got)
	}
	if s.Image().RGBAAt(0, 0).R != 120 {
		t.Fatal("expected presentation to leave the surface untouched")
	}
}

func TestSaturateZeroIsGrey(t *testing.T) {
	c := saturate(0)(color.NRGBA{R: 255, A: 255})
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected grey, got %v", c)
	}
}

func TestPresentBlurSpreadsLightToNeighbours(t *testing.T) {
	s, _ := New(21, 21)
	s.Image().SetRGBA(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	out := s.Present(Filter{Saturation: 1, Blur: 2})
	centre := out.NRGBAAt(10, 10).R
	near := out.NRGBAAt(11, 10).R
	far := out.NRGBAAt(16, 10).R
	if centre >= 255 {
		t.Fatalf("expected the bright pixel to be spread out, got %d", centre)
	}
	if near <= Background.R || near > centre {
		t.Fatalf("expected neighbour brighter than background and dimmer than centre, got %d (centre %d)", near, centre)
	}
	if far > near {
		t.Fatalf("expected falloff with distance, got far %d near %d", far, near)
	}
	if s.Image().RGBAAt(11, 10).R != Background.R {
		t.Fatal("expected blur to leave the surface untouched")
	}
}

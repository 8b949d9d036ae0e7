package particle

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

func TestCountMatchesComplexity(t *testing.T) {
	for _, c := range []int{0, 1, 50, 100} {
		f := New(Count(c), 800, 600, 50, NewPalette(100), testRand())
		if f.Len() != c*2 {
			t.Fatalf("complexity %d: expected %d particles, got %d", c, c*2, f.Len())
		}
	}
}

func TestNewDistributesWithinRanges(t *testing.T) {
	pal := NewPalette(50)
	f := New(500, 800, 600, 40, pal, testRand())
	maxV := 40.0 / 10 / 2
	for i, p := range f.Particles {
		if p.X < 0 || p.X >= 800 || p.Y < 0 || p.Y >= 600 {
			t.Fatalf("particle %d outside surface: (%v,%v)", i, p.X, p.Y)
		}
		if math.Abs(p.VX) > maxV || math.Abs(p.VY) > maxV {
			t.Fatalf("particle %d velocity (%v,%v) exceeds %v", i, p.VX, p.VY, maxV)
		}
		if p.Size < 2 || p.Size >= 7 {
			t.Fatalf("particle %d size %v outside [2,7)", i, p.Size)
		}
		found := false
		for _, c := range pal {
			if c == p.Color {
				found = true
			}
		}
		if !found {
			t.Fatalf("particle %d colour %v not in palette", i, p.Color)
		}
		if p.Life != 1 {
			t.Fatalf("particle %d life %v, expected 1", i, p.Life)
		}
	}
}

func TestAdvanceReflectsAtLowerEdge(t *testing.T) {
	f := &Field{Particles: []Particle{{X: 0, Y: 10, VX: -2, VY: 0}}, width: 100, height: 100}
	f.Advance(1)
	p := f.Particles[0]
	if p.VX != 2 {
		t.Fatalf("expected vx=2 after reflection, got %v", p.VX)
	}
	if p.X < 0 {
		t.Fatalf("expected x>=0 after reflection, got %v", p.X)
	}
}

func TestAdvanceReflectsAtUpperEdge(t *testing.T) {
	f := &Field{Particles: []Particle{{X: 50, Y: 99, VX: 0, VY: 3}}, width: 100, height: 100}
	f.Advance(1)
	p := f.Particles[0]
	if p.VY != -3 {
		t.Fatalf("expected vy=-3 after reflection, got %v", p.VY)
	}
	if p.Y > 100 {
		t.Fatalf("expected y<=100 after reflection, got %v", p.Y)
	}
}

func TestAdvanceScalesByFactor(t *testing.T) {
	f := &Field{Particles: []Particle{{X: 10, Y: 10, VX: 2, VY: -1}}, width: 100, height: 100}
	f.Advance(1.5)
	p := f.Particles[0]
	if p.X != 13 || p.Y != 8.5 {
		t.Fatalf("expected (13,8.5), got (%v,%v)", p.X, p.Y)
	}
}

func TestAdvanceKeepsParticlesNearBounds(t *testing.T) {
	f := New(300, 320, 200, 100, NewPalette(100), testRand())
	for range 1000 {
		f.Advance(1.5)
		for i, p := range f.Particles {
			slack := math.Max(math.Abs(p.VX), math.Abs(p.VY)) * 1.5
			if p.X < -slack || p.X > 320+slack || p.Y < -slack || p.Y > 200+slack {
				t.Fatalf("particle %d escaped bounds: (%v,%v)", i, p.X, p.Y)
			}
		}
	}
}

func TestSetBoundsDoesNotMoveParticles(t *testing.T) {
	f := New(10, 100, 100, 50, NewPalette(100), testRand())
	before := append([]Particle(nil), f.Particles...)
	f.SetBounds(50, 50)
	w, h := f.Bounds()
	if w != 50 || h != 50 {
		t.Fatalf("expected bounds 50x50, got %vx%v", w, h)
	}
	for i := range before {
		if before[i] != f.Particles[i] {
			t.Fatalf("particle %d changed on resize", i)
		}
	}
}

func TestPaletteLightness(t *testing.T) {
	black := NewPalette(0)
	for i, c := range black {
		if c.R != 0 || c.G != 0 || c.B != 0 {
			t.Fatalf("expected black at 0%% lightness, entry %d = %v", i, c)
		}
	}
	white := NewPalette(100)
	for i, c := range white {
		if c.R != 255 || c.G != 255 || c.B != 255 {
			t.Fatalf("expected white at 100%% lightness, entry %d = %v", i, c)
		}
	}
	mid := NewPalette(50)
	// hsl(180,100%,50%) is pure cyan.
	if c := mid[1]; c.R != 0 || c.G != 255 || c.B != 255 {
		t.Fatalf("expected cyan, got %v", c)
	}
	if mid.At(5) != mid[1] || mid.At(-1) != mid[3] {
		t.Fatal("expected At to wrap around the palette")
	}
}

// Package particle owns the simulated particle batch shared by the
// particle-driven visual modes.
package particle

import (
	"image/color"
	"math/rand/v2"
)

// Particle is one simulated point. Velocity is in pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Color  color.NRGBA
	Life   float64 // reserved, always 1
}

// Field is one generation of particles, stored by value and replaced as a
// whole when the batch is regenerated.
type Field struct {
	Particles []Particle
	width     float64
	height    float64
}

// Count returns the batch size for a complexity setting.
func Count(complexity int) int {
	if complexity < 0 {
		return 0
	}
	return complexity * 2
}

// New creates count particles spread uniformly over a width x height surface,
// with per-axis velocity (rand-0.5)*speed/10, size in [2,7) and a random
// palette colour.
func New(count int, width, height float64, speed int, palette Palette, rng *rand.Rand) *Field {
	if count < 0 {
		count = 0
	}
	f := &Field{
		Particles: make([]Particle, count),
		width:     width,
		height:    height,
	}
	scale := float64(speed) / 10
	for i := range f.Particles {
		f.Particles[i] = Particle{
			X:     rng.Float64() * width,
			Y:     rng.Float64() * height,
			VX:    (rng.Float64() - 0.5) * scale,
			VY:    (rng.Float64() - 0.5) * scale,
			Size:  rng.Float64()*5 + 2,
			Color: palette[rng.IntN(len(palette))],
			Life:  1,
		}
	}
	return f
}

// Len returns the number of particles in the batch.
func (f *Field) Len() int { return len(f.Particles) }

// Bounds returns the surface dimensions particles reflect against.
func (f *Field) Bounds() (width, height float64) { return f.width, f.height }

// SetBounds updates the reflection bounds after a surface resize. Particles
// are left where they are.
func (f *Field) SetBounds(width, height float64) {
	f.width = width
	f.height = height
}

// Advance moves every particle by its velocity scaled by factor. When a
// coordinate leaves [0, dimension] the velocity on that axis is negated and
// the overshoot is mirrored back across the crossed edge.
func (f *Field) Advance(factor float64) {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.X += p.VX * factor
		p.Y += p.VY * factor
		p.X, p.VX = reflect(p.X, p.VX, f.width)
		p.Y, p.VY = reflect(p.Y, p.VY, f.height)
	}
}

func reflect(pos, vel, limit float64) (float64, float64) {
	switch {
	case pos < 0:
		return -pos, -vel
	case pos > limit:
		return 2*limit - pos, -vel
	}
	return pos, vel
}

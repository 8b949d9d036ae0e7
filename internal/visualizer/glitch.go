package visualizer

import "math/rand/v2"

// glitchStrip is one horizontal shear: rows [Y, Y+Height) moved by Offset.
type glitchStrip struct {
	Y      int
	Height int
	Offset int
}

// planGlitch decides whether this frame glitches, with probability
// glitchEffect/100, and picks the strip: 10-60px tall, anywhere vertically,
// shifted by up to 50px either way.
func planGlitch(rng *rand.Rand, glitchEffect, height int) (glitchStrip, bool) {
	if rng.Float64() >= float64(glitchEffect)/100 {
		return glitchStrip{}, false
	}
	return glitchStrip{
		Height: int(rng.Float64()*50 + 10),
		Y:      int(rng.Float64() * float64(height)),
		Offset: int((rng.Float64() - 0.5) * 100),
	}, true
}

func renderGlitch(f *Frame) {
	if s, ok := planGlitch(f.Rand, f.Settings.GlitchEffect, f.Surface.Height()); ok {
		f.Surface.ShearStrip(s.Y, s.Height, s.Offset)
	}
	renderParticles(f)
}

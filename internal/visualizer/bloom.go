package visualizer

import "math"

func bloomRadius(size float64, index int, t, bass float64, bassReactivity int) float64 {
	scale := 1 + math.Sin(t+float64(index))*0.5*(1+bass)
	return size * scale * (float64(bassReactivity) / 80) * (1 + bass)
}

// renderBloom draws each particle as a pulsing radial gradient and moves the
// field a gentler step than the particles mode.
func renderBloom(f *Frame) {
	t := f.clock()
	bass := f.Energy.Bass
	glow := float64(f.Settings.TrebleReactivity) * (1 + f.Energy.Treble)

	for i := range f.Field.Particles {
		p := &f.Field.Particles[i]
		r := bloomRadius(p.Size, i, t, bass, f.Settings.BassReactivity)
		f.Surface.Gradient(p.X, p.Y, r, p.Color, glow)
	}

	f.Field.Advance(1 + bass*0.3)
}

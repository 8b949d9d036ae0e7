package visualizer

// renderParticles draws each particle as a glowing disc that swells with
// the bass, then moves the field a bass-boosted step.
func renderParticles(f *Frame) {
	bass := f.Energy.Bass
	reactivity := float64(f.Settings.BassReactivity)
	glow := reactivity / 2 * (1 + f.Energy.Treble)

	for i := range f.Field.Particles {
		p := &f.Field.Particles[i]
		r := p.Size * (1 + bass*reactivity/50)
		f.Surface.Circle(p.X, p.Y, r, p.Color, glow)
	}

	f.Field.Advance(1 + bass*0.5)
}

package visualizer

import "math"

const kaleidoscopeRings = 5

func kaleidoscopeSegments(complexity int) int {
	return complexity/10 + 3
}

// kaleidoscopeRadius is the distance of ring j from the centre.
func kaleidoscopeRadius(j int, t, bass float64) float64 {
	fj := float64(j)
	return 50 + fj*40 + math.Sin(t+fj)*20*(1+bass)
}

// renderKaleidoscope repeats one line of rings around the surface centre,
// rotated evenly once per segment.
func renderKaleidoscope(f *Frame) {
	t := f.clock()
	bass := f.Energy.Bass
	segments := kaleidoscopeSegments(f.Settings.Complexity)
	palette := f.Settings.Palette()

	cx := float64(f.Surface.Width()) / 2
	cy := float64(f.Surface.Height()) / 2
	size := 10 + float64(f.Settings.BassReactivity)/10*(1+bass*2)
	glow := float64(f.Settings.TrebleReactivity) / 2 * (1 + f.Energy.Treble)

	var radii [kaleidoscopeRings]float64
	for j := range radii {
		radii[j] = kaleidoscopeRadius(j, t, bass)
	}

	for i := range segments {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		for j, r := range radii {
			f.Surface.Circle(cx+r*cos, cy+r*sin, size, palette.At(j), glow)
		}
	}
}

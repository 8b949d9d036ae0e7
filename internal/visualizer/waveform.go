package visualizer

import (
	"math"

	"github.com/olivier-w/visualiser/internal/surface"
)

const (
	waveformCurves    = 3
	waveformStep      = 5
	waveformLineWidth = 3
	waveformGlow      = 20
)

func waveformAmplitude(bassReactivity int, bass float64) float64 {
	return float64(bassReactivity) / 100 * 200 * (1 + bass*2)
}

func waveformFrequency(trebleReactivity int, treble float64) float64 {
	return float64(trebleReactivity) / 100 * (1 + treble)
}

// waveformY is the vertical position of curve at column x: two stacked
// sines, the second at double rate and half amplitude.
func waveformY(x, height, amplitude, frequency, t float64, curve int) float64 {
	i := float64(curve)
	return height/2 +
		math.Sin((x*frequency+t+i)*0.02)*amplitude +
		math.Sin((x*frequency*2+t*2+i)*0.01)*(amplitude/2)
}

func renderWaveform(f *Frame) {
	t := f.clock()
	amplitude := waveformAmplitude(f.Settings.BassReactivity, f.Energy.Bass)
	frequency := waveformFrequency(f.Settings.TrebleReactivity, f.Energy.Treble)
	palette := f.Settings.Palette()

	w := f.Surface.Width()
	h := float64(f.Surface.Height())
	pts := make([]surface.Point, 0, w/waveformStep+1)

	for i := range waveformCurves {
		pts = pts[:0]
		for x := 0; x < w; x += waveformStep {
			fx := float64(x)
			pts = append(pts, surface.Point{X: fx, Y: waveformY(fx, h, amplitude, frequency, t, i)})
		}
		f.Surface.Polyline(pts, palette.At(i), waveformLineWidth, waveformGlow)
	}
}

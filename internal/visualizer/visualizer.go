// Package visualizer holds the per-frame drawing routines for every visual
// mode. Each routine reads band energies and settings and paints into a
// surface; the particle modes also advance the shared particle field.
package visualizer

import (
	"math/rand/v2"

	"github.com/olivier-w/visualiser/internal/analysis"
	"github.com/olivier-w/visualiser/internal/particle"
	"github.com/olivier-w/visualiser/internal/surface"
)

// Frame carries everything one render call may read or mutate. The field is
// borrowed for the duration of the call.
type Frame struct {
	Surface  *surface.Surface
	Settings Settings
	Energy   analysis.Energies
	Field    *particle.Field
	Elapsed  float64 // seconds since the loop started
	Rand     *rand.Rand
}

// Render paints one frame of mode m.
func Render(m Mode, f *Frame) {
	switch m {
	case Particles:
		renderParticles(f)
	case Waveform:
		renderWaveform(f)
	case Kaleidoscope:
		renderKaleidoscope(f)
	case Glitch:
		renderGlitch(f)
	case Bloom:
		renderBloom(f)
	}
}

// clock returns elapsed time scaled by the speed knob.
func (f *Frame) clock() float64 {
	return f.Elapsed * float64(f.Settings.Speed) / 50
}

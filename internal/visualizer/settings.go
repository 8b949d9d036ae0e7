package visualizer

import (
	"github.com/olivier-w/visualiser/internal/particle"
	"github.com/olivier-w/visualiser/internal/surface"
)

// Settings is the vector of user-tunable knobs, each in [0,100]. Values are
// expected to be clamped by whoever builds the vector.
type Settings struct {
	ColorIntensity    int
	Complexity        int
	Speed             int
	BlurAmount        int
	GlitchEffect      int
	BassReactivity    int
	TrebleReactivity  int
	RhythmSensitivity int // carried for the host; no mode reads it
	Distortion        int // display filter only
}

// DefaultSettings returns the knob positions a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		ColorIntensity:    100,
		Complexity:        50,
		Speed:             50,
		BlurAmount:        0,
		GlitchEffect:      0,
		BassReactivity:    80,
		TrebleReactivity:  60,
		RhythmSensitivity: 70,
		Distortion:        0,
	}
}

// Palette returns the particle palette for the colour intensity.
func (s Settings) Palette() particle.Palette {
	return particle.NewPalette(s.ColorIntensity)
}

// ParticleCount returns the batch size the complexity knob asks for.
func (s Settings) ParticleCount() int {
	return particle.Count(s.Complexity)
}

// FadeAlpha is the opacity of the per-frame fade: more blur, longer trails.
func (s Settings) FadeAlpha() float64 {
	return 1 - float64(s.BlurAmount)/100
}

// Filter returns the display filter: blur of BlurAmount/10 pixels and
// saturation of (100+Distortion)%.
func (s Settings) Filter() surface.Filter {
	return surface.Filter{
		Blur:       float64(s.BlurAmount) / 10,
		Saturation: float64(100+s.Distortion) / 100,
	}
}

// Knob names one field of Settings for generic editing.
type Knob int

const (
	KnobColorIntensity Knob = iota
	KnobComplexity
	KnobSpeed
	KnobBlurAmount
	KnobGlitchEffect
	KnobBassReactivity
	KnobTrebleReactivity
	KnobRhythmSensitivity
	KnobDistortion
	knobCount
)

var knobLabels = [knobCount]string{
	"Color Intensity",
	"Complexity",
	"Speed",
	"Blur Amount",
	"Glitch Effect",
	"Bass Reactivity",
	"Treble Reactivity",
	"Rhythm Sensitivity",
	"Distortion",
}

// Knobs lists every knob in panel order.
func Knobs() []Knob {
	out := make([]Knob, knobCount)
	for i := range out {
		out[i] = Knob(i)
	}
	return out
}

func (k Knob) String() string {
	if k < 0 || k >= knobCount {
		return "unknown"
	}
	return knobLabels[k]
}

func (s *Settings) field(k Knob) *int {
	switch k {
	case KnobColorIntensity:
		return &s.ColorIntensity
	case KnobComplexity:
		return &s.Complexity
	case KnobSpeed:
		return &s.Speed
	case KnobBlurAmount:
		return &s.BlurAmount
	case KnobGlitchEffect:
		return &s.GlitchEffect
	case KnobBassReactivity:
		return &s.BassReactivity
	case KnobTrebleReactivity:
		return &s.TrebleReactivity
	case KnobRhythmSensitivity:
		return &s.RhythmSensitivity
	case KnobDistortion:
		return &s.Distortion
	}
	return nil
}

// Get returns the value of knob k.
func (s Settings) Get(k Knob) int {
	if p := s.field(k); p != nil {
		return *p
	}
	return 0
}

// With returns a copy of s with knob k set to v clamped to [0,100].
func (s Settings) With(k Knob, v int) Settings {
	if p := s.field(k); p != nil {
		*p = Clamp(v)
	}
	return s
}

// Clamp limits a knob value to [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package visualizer

import (
	"fmt"
	"strings"
)

// Mode selects one of the visual renderers.
type Mode int

const (
	Particles Mode = iota
	Waveform
	Kaleidoscope
	Glitch
	Bloom
	modeCount
)

var modeNames = [modeCount]string{"particles", "waveform", "kaleidoscope", "glitch", "bloom"}

// Modes returns all available modes in display order.
func Modes() []Mode {
	return []Mode{Particles, Waveform, Kaleidoscope, Glitch, Bloom}
}

func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return "unknown"
	}
	return modeNames[m]
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// ParseMode looks a mode up by name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown visual mode %q (want one of %s)", name, strings.Join(modeNames[:], ", "))
}

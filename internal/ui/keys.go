package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/visualiser/internal/visualizer"
)

const (
	knobStep = 5
	seekStep = 5 * time.Second
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

// modeKey maps the digit keys 1-5 to modes.
func modeKey(msg tea.KeyMsg) (visualizer.Mode, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' {
		return 0, false
	}
	i := int(s[0] - '1')
	modes := visualizer.Modes()
	if i >= len(modes) {
		return 0, false
	}
	return modes[i], true
}

func helpText(panel bool) string {
	s := "space pause  1-5 mode  m next  +/- volume  s panel"
	if panel {
		s += "  tab knob  ←/→ adjust"
	} else {
		s += "  ←/→ seek"
	}
	return s + "  q quit"
}

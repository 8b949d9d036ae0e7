package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/visualiser/internal/analysis"
)

// meters smooths the three band energies with critically damped springs so
// the panel readout does not flicker at frame rate.
type meters struct {
	spring harmonica.Spring
	pos    [3]float64
	vel    [3]float64
}

func newMeters(fps int) meters {
	if fps <= 0 {
		fps = 30
	}
	return meters{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		pos:    [3]float64{analysis.NeutralEnergy, analysis.NeutralEnergy, analysis.NeutralEnergy},
	}
}

func (m *meters) update(e analysis.Energies) {
	targets := [3]float64{e.Bass, e.Mid, e.Treble}
	for i, target := range targets {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], target)
	}
}

func (m meters) level(b analysis.Band) float64 {
	return max(0, min(m.pos[b], 1))
}

func (m meters) view(width int) string {
	lines := make([]string, 0, 3)
	for _, b := range []analysis.Band{analysis.Bass, analysis.Mid, analysis.Treble} {
		v := m.level(b)
		lines = append(lines, fmt.Sprintf("%-6s %s %3d", b, renderProgressBar(v, 1, width), int(v*100)))
	}
	return strings.Join(lines, "\n")
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/olivier-w/visualiser/internal/visualizer"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = max(0, min(ratio, 1))

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100))
}

func newKnobBar() progress.Model {
	return progress.New(
		progress.WithGradient("#00FFFF", "#FF00FF"),
		progress.WithoutPercentage(),
		progress.WithWidth(panelBarWidth),
	)
}

// renderKnobs lists every knob with its value; the selected one is
// highlighted.
func renderKnobs(bar progress.Model, s visualizer.Settings, selected visualizer.Knob) string {
	var sb strings.Builder
	for _, k := range visualizer.Knobs() {
		style := knobStyle
		marker := "  "
		if k == selected {
			style = selectedKnobStyle
			marker = "› "
		}
		v := s.Get(k)
		sb.WriteString(style.Render(fmt.Sprintf("%s%-18s %3d", marker, k, v)))
		sb.WriteByte('\n')
		sb.WriteString("  " + bar.ViewAs(float64(v)/100))
		sb.WriteByte('\n')
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

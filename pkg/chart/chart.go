// Package chart renders horizontal bar charts for terminal output.
// Used by the sessions stats command and the history TUI.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Point is one row in a bar chart.
type Point struct {
	Label string
	Value float64
}

// Bars renders one bar line per point, scaled against the maximum value.
// width is the total line width; labels are right-padded to the widest
// label so the bars line up.
func Bars(points []Point, width int) string {
	if len(points) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	labelWidth := 0
	ceiling := 0.0
	for _, p := range points {
		if w := lipgloss.Width(p.Label); w > labelWidth {
			labelWidth = w
		}
		if p.Value > ceiling {
			ceiling = p.Value
		}
	}

	// label + space + bar + space + value column
	valueWidth := 7
	barWidth := width - labelWidth - valueWidth - 2
	if barWidth < 8 {
		barWidth = 8
	}

	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(padRight(p.Label, labelWidth)))
		b.WriteString(" ")
		b.WriteString(renderBar(p.Value, ceiling, barWidth))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(formatValue(p.Value)))
	}
	return b.String()
}

func renderBar(value, ceiling float64, width int) string {
	if ceiling <= 0 {
		return trackStyle.Render(strings.Repeat("░", width))
	}
	ratio := value / ceiling
	filled := min(max(int(ratio*float64(width)), 0), width)
	return barStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))
}

func padRight(value string, width int) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/snowfall/internal/gradient"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(44).
			Align(lipgloss.Center)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	metricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	metricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	keyHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

// GradientText colors each rune of text along a start-to-end gradient.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	start, err := gradient.ParseHex(string(startColor))
	if err != nil {
		return text
	}
	end, err := gradient.ParseHex(string(endColor))
	if err != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		f := 0.0
		if len(runes) > 1 {
			f = float64(i) / float64(len(runes)-1)
		}
		c := gradient.Lerp(start, end, f)
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// metricLine renders "label value" for the perf panel.
func metricLine(label, value string) string {
	return metricLabel.Render(label) + " " + metricValue.Render(value)
}

package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonwise/internal/greenops"
)

// Palette.
var (
	ColorHeader    = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#A5D6A7"}
	ColorLabel     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"}
	ColorValue     = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#777777"}
	ColorGood      = lipgloss.Color("#2E7D32")
	ColorBad       = lipgloss.Color("#C62828")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorHeader).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(ColorGood).
				Bold(true)
)

// improvementEpsilon hides floating-point noise around 0%.
const improvementEpsilon = 0.05

// RenderImprovement colors an improvement percentage: reductions green,
// regressions red, anything that rounds to zero muted.
func RenderImprovement(pct float64) string {
	text := greenops.FormatPercent(pct)
	switch {
	case math.Abs(pct) < improvementEpsilon:
		return lipgloss.NewStyle().Foreground(ColorMuted).Render(text)
	case pct > 0:
		return lipgloss.NewStyle().Foreground(ColorGood).Bold(true).Render("▼ " + text)
	default:
		return lipgloss.NewStyle().Foreground(ColorBad).Bold(true).Render("▲ " + text)
	}
}

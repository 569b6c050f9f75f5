package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonwise/internal/greenops"
)

const (
	summaryNameWidth  = 18
	summaryValueWidth = 14
	defaultWidth      = 80
)

// RenderCompareSummary renders the run groups and, when cmp is non-nil, the
// improvement of the optimized configuration over the baseline. Energy and
// CO2e share one display unit across all groups.
func RenderCompareSummary(groups []greenops.AggregateGroup, cmp *greenops.Comparison, precision, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	energyUnit := greenops.EnergyDisplayFor(groups)
	co2Unit := greenops.CO2DisplayFor(groups)

	headers := []string{
		"Samples",
		"Energy (" + energyUnit.Label + ")",
		"CO2e (" + co2Unit.Label + ")",
		"Latency (ms)",
		"SCI (Wh/req)",
		"Cost (EUR)",
	}

	var rows []string
	rows = append(rows, summaryRow(TableHeaderStyle, "Group", headers))
	for _, g := range groups {
		rows = append(rows, summaryRow(ValueStyle, g.Name, []string{
			strconv.Itoa(g.SampleCount),
			greenops.FormatFloat(energyUnit.Apply(g.MeanEnergyKWh), precision),
			greenops.FormatFloat(co2Unit.Apply(g.MeanCO2Kg), precision),
			greenops.FormatFloat(g.MeanLatencyMs, 1),
			greenops.FormatFloat(g.MeanSCI, 1),
			greenops.FormatFloat(g.MeanCostEUR, 4), //nolint:mnd // cents and tenths of cents
		}))
	}

	sections := []string{
		HeaderStyle.Render(fmt.Sprintf("Run groups (%d)", len(groups))),
		strings.Join(rows, "\n"),
	}

	if cmp != nil {
		sections = append(sections, "", renderImprovementBox(*cmp, width))
	} else if len(groups) > 0 {
		sections = append(sections, "", MutedStyle.Render("No baseline/optimized pair found; improvements not applicable."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func summaryRow(style lipgloss.Style, name string, cells []string) string {
	parts := []string{LabelStyle.Width(summaryNameWidth).Render(truncate(name, summaryNameWidth-1))}
	for _, c := range cells {
		parts = append(parts, style.Width(summaryValueWidth).Align(lipgloss.Right).Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderImprovementBox(cmp greenops.Comparison, width int) string {
	var lines []string
	lines = append(lines, HeaderStyle.Render(
		fmt.Sprintf("%s vs %s", cmp.Optimized.Name, cmp.Baseline.Name)))

	labels := map[greenops.Metric]string{
		greenops.MetricEnergy:  "Energy",
		greenops.MetricCO2:     "CO2e",
		greenops.MetricLatency: "Latency",
		greenops.MetricSCI:     "SCI",
		greenops.MetricCost:    "Cost",
	}
	for _, m := range greenops.AllMetrics() {
		lines = append(lines, LabelStyle.Width(summaryNameWidth).Render(labels[m])+
			RenderImprovement(cmp.Improvements.Get(m)))
	}

	if saved := cmp.CO2SavedKg(); saved > 0 {
		if eq, err := greenops.CalculateEquivalency(saved); err == nil && !eq.BelowThreshold {
			lines = append(lines, "", MutedStyle.Render(eq.DisplayText+" per run"))
		}
	}

	const boxChrome = 4
	return BoxStyle.MaxWidth(width).Width(min(width-boxChrome, summaryNameWidth+summaryValueWidth*3)).
		Render(strings.Join(lines, "\n"))
}

// RenderAlternatives renders greener-region advice for styled output.
// energyKWh, when positive, adds the estimated kg CO2e saved.
func RenderAlternatives(current greenops.RegionFactor, alts []greenops.GreenerAlternative, energyKWh float64) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Greener than %s (%s gCO2/kWh)",
		current.Label(), greenops.FormatFloat(current.GCO2PerKWh, 0))))
	b.WriteString("\n")

	if len(alts) == 0 {
		b.WriteString(MutedStyle.Render("No greener region in the table."))
		b.WriteString("\n")
		return b.String()
	}

	for i, a := range alts {
		line := fmt.Sprintf("%d. %s (%s)  %s gCO2/kWh  ",
			i+1, a.Label(), a.Region, greenops.FormatFloat(a.GCO2PerKWh, 0))
		b.WriteString(ValueStyle.Render(line))
		b.WriteString(RenderImprovement(a.ImprovementPct))
		if energyKWh > 0 {
			b.WriteString(MutedStyle.Render(fmt.Sprintf("  ≈ %s kg saved for %s kWh",
				greenops.FormatFloat(a.SavedKg(energyKWh), 3), greenops.FormatFloat(energyKWh, 2)))) //nolint:mnd // grams
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rshade/carbonwise/internal/greenops"
)

// reportInput is the data behind a Markdown report.
type reportInput struct {
	Generated  time.Time
	Groups     []greenops.AggregateGroup
	Comparison *greenops.Comparison
	Baseline   string
	Optimized  string
	KWhEUR     float64

	// Region advice is included when Regions is non-empty.
	Regions       []greenops.RegionFactor
	CurrentRegion string
	TopK          int
	EnergyKWh     float64
}

// buildMarkdownReport renders the report. Energy and CO2e rows use one
// display unit chosen from the compared groups.
func buildMarkdownReport(in reportInput) string {
	var b strings.Builder

	b.WriteString("# CarbonWise Report\n\n")
	fmt.Fprintf(&b, "_Generated: %s_\n\n", in.Generated.UTC().Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	if in.Comparison != nil {
		writeSummaryTable(&b, *in.Comparison)
	} else {
		fmt.Fprintf(&b, "No run group matches both %q and %q; improvements are not applicable.\n\n",
			in.Baseline, in.Optimized)
	}

	writeGroupsTable(&b, in.Groups)

	if in.Comparison != nil {
		writeEquivalency(&b, in.Comparison.CO2SavedKg())
	}

	if len(in.Regions) > 0 {
		writeRegionAdvice(&b, in)
	}

	b.WriteString("## Notes\n\n")
	b.WriteString("- Values are means across runs with the same `run_name`.\n")
	b.WriteString("- SCI = (Wh per request).\n")
	fmt.Fprintf(&b, "- Cost is derived from energy at €%s/kWh where a run omits `cost_eur` (`CARBONWISE_KWH_EUR`).\n",
		greenops.FormatFloat(in.KWhEUR, 2)) //nolint:mnd // cents

	return b.String()
}

func writeSummaryTable(b *strings.Builder, cmp greenops.Comparison) {
	pair := []greenops.AggregateGroup{cmp.Baseline, cmp.Optimized}
	energy := greenops.EnergyDisplayFor(pair)
	co2 := greenops.CO2DisplayFor(pair)

	fmt.Fprintf(b, "Baseline: `%s` (n=%d), optimized: `%s` (n=%d)\n\n",
		cmp.Baseline.Name, cmp.Baseline.SampleCount, cmp.Optimized.Name, cmp.Optimized.SampleCount)
	b.WriteString("| Metric | Baseline | Optimized | Δ % |\n")
	b.WriteString("|---|---:|---:|---:|\n")

	row := func(label string, base, opt float64, prec int, pct float64) {
		fmt.Fprintf(b, "| %s | %.*f | %.*f | %.1f%% |\n", label, prec, base, prec, opt, pct)
	}
	row("Energy ("+energy.Label+")", energy.Apply(cmp.Baseline.MeanEnergyKWh), energy.Apply(cmp.Optimized.MeanEnergyKWh),
		3, cmp.Improvements.EnergyPct) //nolint:mnd // report precision
	row("CO₂e ("+co2.Label+")", co2.Apply(cmp.Baseline.MeanCO2Kg), co2.Apply(cmp.Optimized.MeanCO2Kg),
		3, cmp.Improvements.CO2Pct) //nolint:mnd // report precision
	row("Latency (ms)", cmp.Baseline.MeanLatencyMs, cmp.Optimized.MeanLatencyMs, 1, cmp.Improvements.LatencyPct)
	row("SCI (Wh/req)", cmp.Baseline.MeanSCI, cmp.Optimized.MeanSCI, 1, cmp.Improvements.SCIPct)
	row("Cost (€)", cmp.Baseline.MeanCostEUR, cmp.Optimized.MeanCostEUR, costPrecision, cmp.Improvements.CostPct)
	b.WriteString("\n")
}

func writeGroupsTable(b *strings.Builder, groups []greenops.AggregateGroup) {
	if len(groups) == 0 {
		b.WriteString("The run log contains no records.\n\n")
		return
	}

	energy := greenops.EnergyDisplayFor(groups)
	co2 := greenops.CO2DisplayFor(groups)

	b.WriteString("## Run groups\n\n")
	fmt.Fprintf(b, "| Group | Runs | Energy (%s) | CO₂e (%s) | Latency (ms) | SCI (Wh/req) |\n", energy.Label, co2.Label)
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, g := range groups {
		fmt.Fprintf(b, "| %s | %d | %.3f | %.3f | %.1f | %.1f |\n",
			strings.ReplaceAll(g.Name, "|", `\|`), g.SampleCount,
			energy.Apply(g.MeanEnergyKWh), co2.Apply(g.MeanCO2Kg), g.MeanLatencyMs, g.MeanSCI)
	}
	b.WriteString("\n")
}

func writeEquivalency(b *strings.Builder, savedKg float64) {
	if savedKg <= 0 {
		return
	}
	eq, err := greenops.CalculateEquivalency(savedKg)
	if err != nil || eq.BelowThreshold {
		return
	}
	b.WriteString("## Impact\n\n")
	fmt.Fprintf(b, "The optimized configuration saves %.3f kg CO₂e per run. %s.\n\n", savedKg, eq.DisplayText)
}

func writeRegionAdvice(b *strings.Builder, in reportInput) {
	b.WriteString("## Region advice\n\n")

	current, ok := greenops.LookupRegion(in.Regions, in.CurrentRegion)
	if !ok {
		fmt.Fprintf(b, "Current region %s not in table.\n\n", in.CurrentRegion)
		return
	}

	alts := greenops.TopGreenerAlternatives(in.Regions, in.CurrentRegion, in.TopK)
	if len(alts) == 0 {
		fmt.Fprintf(b, "%s (%.0f gCO2/kWh) is already the greenest region in the table.\n\n",
			current.Label(), current.GCO2PerKWh)
		return
	}

	b.WriteString("Top greener regions (by gCO2/kWh):\n\n")
	for _, a := range alts {
		b.WriteString(formatAdvice(a, in.EnergyKWh))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// formatAdvice formats one greener alternative as a list item.
func formatAdvice(a greenops.GreenerAlternative, energyKWh float64) string {
	line := fmt.Sprintf("- %s (%s): %.0f gCO2/kWh → ~%.1f%% less CO₂e",
		a.Label(), a.Region, a.GCO2PerKWh, a.ImprovementPct)
	if energyKWh > 0 {
		line += fmt.Sprintf(" (≈ %.3f kg saved for %.2f kWh)", a.SavedKg(energyKWh), energyKWh)
	}
	return line
}

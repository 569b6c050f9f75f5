package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/metrics"
	"github.com/rshade/carbonwise/internal/tui"
)

// tabwriterPadding is the minimum padding between columns in plain tables.
const tabwriterPadding = 2

// costPrecision is the number of decimals shown for EUR amounts.
const costPrecision = 4

// resolveOutputFormat returns flag when set, otherwise the configured default.
func resolveOutputFormat(flag string, cfg *config.Config) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	if !slices.Contains(config.ValidOutputFormats(), format) {
		return "", fmt.Errorf("%w: %q (valid: %s)", config.ErrInvalidOutputFormat,
			format, strings.Join(config.ValidOutputFormats(), ", "))
	}
	return format, nil
}

// displayUnits are the units chosen for one rendering of a group set.
type displayUnits struct {
	Energy greenops.DisplayUnit `json:"energy"`
	CO2    greenops.DisplayUnit `json:"co2e"`
}

// compareView is everything compare renders. Comparison is nil when no
// baseline/optimized pair was found.
type compareView struct {
	Groups      []greenops.AggregateGroup `json:"groups"`
	Units       displayUnits              `json:"display_units"`
	Applicable  bool                      `json:"comparison_applicable"`
	Comparison  *greenops.Comparison      `json:"comparison,omitempty"`
	CO2SavedKg  *float64                  `json:"co2e_saved_kg,omitempty"`
	Equivalency *greenops.Equivalency     `json:"equivalency,omitempty"`
}

func newCompareView(groups []greenops.AggregateGroup, cmp *greenops.Comparison) compareView {
	v := compareView{
		Groups: groups,
		Units: displayUnits{
			Energy: greenops.EnergyDisplayFor(groups),
			CO2:    greenops.CO2DisplayFor(groups),
		},
	}
	if cmp == nil {
		return v
	}

	v.Applicable = true
	v.Comparison = cmp
	saved := cmp.CO2SavedKg()
	v.CO2SavedKg = &saved
	if saved > 0 {
		if eq, err := greenops.CalculateEquivalency(saved); err == nil && !eq.BelowThreshold {
			v.Equivalency = &eq
		}
	}
	return v
}

// RenderCompareOutput writes view in the requested format. Table output is
// styled on a terminal and plain otherwise.
func RenderCompareOutput(cmd *cobra.Command, format string, plain bool, precision int, view compareView) error {
	w := cmd.OutOrStdout()

	switch format {
	case config.OutputJSON:
		return renderCompareJSON(w, view)
	case config.OutputNDJSON:
		return renderCompareNDJSON(w, view)
	case config.OutputPrometheus:
		return renderComparePrometheus(w, view)
	}

	mode := tui.DetectOutputMode(false, false, plain)
	if mode == tui.OutputModePlain {
		return renderComparePlain(w, precision, view)
	}
	_, err := fmt.Fprint(w, tui.RenderCompareSummary(view.Groups, view.Comparison, precision, tui.TerminalWidth()))
	return err
}

func renderCompareJSON(w io.Writer, view compareView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ndjsonGroup and ndjsonComparison are the line types of NDJSON output.
type ndjsonGroup struct {
	Type string `json:"type"`
	greenops.AggregateGroup
}

type ndjsonComparison struct {
	Type string `json:"type"`
	greenops.Comparison

	CO2SavedKg float64 `json:"co2e_saved_kg"`
}

func renderCompareNDJSON(w io.Writer, view compareView) error {
	enc := json.NewEncoder(w)
	for _, g := range view.Groups {
		if err := enc.Encode(ndjsonGroup{Type: "group", AggregateGroup: g}); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	if view.Comparison == nil {
		return nil
	}
	line := ndjsonComparison{
		Type:       "comparison",
		Comparison: *view.Comparison,
		CO2SavedKg: view.Comparison.CO2SavedKg(),
	}
	if err := enc.Encode(line); err != nil {
		return fmt.Errorf("encoding NDJSON: %w", err)
	}
	return nil
}

func renderComparePrometheus(w io.Writer, view compareView) error {
	exp := metrics.NewExporter()
	exp.ObserveGroups(view.Groups)
	if view.Comparison != nil {
		exp.ObserveComparison(*view.Comparison)
	}
	return exp.WriteText(w)
}

// renderComparePlain writes a tab-aligned table of the groups followed by the
// improvements, when applicable.
func renderComparePlain(w io.Writer, precision int, view compareView) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "GROUP\tSAMPLES\tENERGY (%s)\tCO2E (%s)\tLATENCY (ms)\tSCI (Wh/req)\tCOST (EUR)\n",
		view.Units.Energy.Label, view.Units.CO2.Label); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t-------\t------\t----\t-------\t---\t----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, g := range view.Groups {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			g.Name, g.SampleCount,
			greenops.FormatFloat(view.Units.Energy.Apply(g.MeanEnergyKWh), precision),
			greenops.FormatFloat(view.Units.CO2.Apply(g.MeanCO2Kg), precision),
			greenops.FormatFloat(g.MeanLatencyMs, 1),
			greenops.FormatFloat(g.MeanSCI, 1),
			greenops.FormatFloat(g.MeanCostEUR, costPrecision),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.Comparison == nil {
		if len(view.Groups) > 0 {
			_, err := fmt.Fprintln(w, "\nImprovements: not applicable (no baseline/optimized pair)")
			return err
		}
		return nil
	}

	return renderImprovementsPlain(w, view)
}

func renderImprovementsPlain(w io.Writer, view compareView) error {
	cmp := view.Comparison
	if _, err := fmt.Fprintf(w, "\nIMPROVEMENT (%s vs %s)\n", cmp.Optimized.Name, cmp.Baseline.Name); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	for _, m := range greenops.AllMetrics() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", metricTitle(m), greenops.FormatPercent(cmp.Improvements.Get(m))); err != nil {
			return fmt.Errorf("writing improvement: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.Equivalency != nil {
		_, err := fmt.Fprintf(w, "\nCO2e saved per run: %s kg. %s\n",
			strconv.FormatFloat(*view.CO2SavedKg, 'f', 3, 64), view.Equivalency.DisplayText) //nolint:mnd // grams
		return err
	}
	return nil
}

// metricTitle is the display name of a metric.
func metricTitle(m greenops.Metric) string {
	switch m {
	case greenops.MetricEnergy:
		return "Energy"
	case greenops.MetricCO2:
		return "CO2e"
	case greenops.MetricLatency:
		return "Latency"
	case greenops.MetricSCI:
		return "SCI"
	case greenops.MetricCost:
		return "Cost"
	default:
		return m.String()
	}
}

package greenops

import (
	"context"
	"strings"

	"github.com/rshade/carbonwise/internal/logging"
)

// ImprovementPct returns the percentage reduction from baseline to optimized.
// A baseline at or below ImprovementEpsilon yields 0 rather than dividing.
func ImprovementPct(baseline, optimized float64) float64 {
	if baseline <= ImprovementEpsilon {
		return 0
	}
	return (baseline - optimized) / baseline * percentMultiplier
}

// RegressionPct returns how much worse candidate is than baseline, in percent.
// It is the negation of ImprovementPct and shares its near-zero guard.
func RegressionPct(baseline, candidate float64) float64 {
	if baseline <= ImprovementEpsilon {
		return 0
	}
	return (candidate - baseline) / baseline * percentMultiplier
}

// GroupMatcher reports whether the group called name matches label.
type GroupMatcher func(name, label string) bool

// MatchContains matches when name contains label, ignoring case.
func MatchContains(name, label string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(label))
}

// MatchExact matches only a name identical to label.
func MatchExact(name, label string) bool {
	return name == label
}

// FindGroup returns the first group whose name contains label, ignoring case.
// When several groups match, the earliest in groups wins; for Aggregate output
// that is the run name seen first in the log.
func FindGroup(groups []AggregateGroup, label string) (AggregateGroup, bool) {
	return findGroup(groups, label, MatchContains)
}

// FindGroupExact returns the group named exactly label.
func FindGroupExact(groups []AggregateGroup, label string) (AggregateGroup, bool) {
	return findGroup(groups, label, MatchExact)
}

func findGroup(groups []AggregateGroup, label string, match GroupMatcher) (AggregateGroup, bool) {
	for _, g := range groups {
		if match(g.Name, label) {
			return g, true
		}
	}
	return AggregateGroup{}, false
}

// Improvements holds per-metric percentage reductions from baseline to optimized.
type Improvements struct {
	EnergyPct  float64 `json:"energy_pct"`
	CO2Pct     float64 `json:"co2e_pct"`
	LatencyPct float64 `json:"latency_pct"`
	SCIPct     float64 `json:"sci_pct"`
	CostPct    float64 `json:"cost_pct"`
}

// Get returns the improvement for m.
func (i Improvements) Get(m Metric) float64 {
	switch m {
	case MetricEnergy:
		return i.EnergyPct
	case MetricCO2:
		return i.CO2Pct
	case MetricLatency:
		return i.LatencyPct
	case MetricSCI:
		return i.SCIPct
	case MetricCost:
		return i.CostPct
	default:
		return 0
	}
}

// Comparison pairs a baseline and an optimized group with their improvements.
type Comparison struct {
	Baseline     AggregateGroup `json:"baseline"`
	Optimized    AggregateGroup `json:"optimized"`
	Improvements Improvements   `json:"improvements"`
}

// Compare locates the baseline and optimized groups by case-insensitive
// substring (see FindGroup) and computes their improvements. The boolean is
// false when either group is missing: no comparison applies, which is distinct
// from a computed 0% improvement.
func Compare(ctx context.Context, groups []AggregateGroup, baselineLabel, optimizedLabel string) (Comparison, bool) {
	return CompareWith(ctx, groups, baselineLabel, optimizedLabel, MatchContains)
}

// CompareWith is Compare with an explicit matcher for locating the two groups.
func CompareWith(
	ctx context.Context,
	groups []AggregateGroup,
	baselineLabel, optimizedLabel string,
	match GroupMatcher,
) (Comparison, bool) {
	log := logging.FromContext(ctx)

	base, okBase := findGroup(groups, baselineLabel, match)
	opt, okOpt := findGroup(groups, optimizedLabel, match)
	if !okBase || !okOpt {
		log.Debug().
			Str("component", "greenops").
			Str("baseline_label", baselineLabel).
			Str("optimized_label", optimizedLabel).
			Bool("baseline_found", okBase).
			Bool("optimized_found", okOpt).
			Msg("comparison not applicable")
		return Comparison{}, false
	}

	return Comparison{
		Baseline:  base,
		Optimized: opt,
		Improvements: Improvements{
			EnergyPct:  ImprovementPct(base.MeanEnergyKWh, opt.MeanEnergyKWh),
			CO2Pct:     ImprovementPct(base.MeanCO2Kg, opt.MeanCO2Kg),
			LatencyPct: ImprovementPct(base.MeanLatencyMs, opt.MeanLatencyMs),
			SCIPct:     ImprovementPct(base.MeanSCI, opt.MeanSCI),
			CostPct:    ImprovementPct(base.MeanCostEUR, opt.MeanCostEUR),
		},
	}, true
}

// CO2SavedKg is the mean emissions avoided per run by the optimized configuration.
// Negative when the optimized configuration emits more.
func (c Comparison) CO2SavedKg() float64 {
	return c.Baseline.MeanCO2Kg - c.Optimized.MeanCO2Kg
}

// Package metrics exposes carbonwise aggregates in the Prometheus text
// exposition format, for `--output prometheus` and node_exporter's textfile
// collector.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/rshade/carbonwise/internal/greenops"
)

// Namespace prefixes every metric name.
const Namespace = "carbonwise"

// Exporter holds one gauge family per exported quantity on a private registry.
// It is not safe to reuse across unrelated reports; build one per render.
type Exporter struct {
	registry *prometheus.Registry

	groupMeans   *prometheus.GaugeVec
	groupSamples *prometheus.GaugeVec
	improvement  *prometheus.GaugeVec
	gateRegress  *prometheus.GaugeVec
	gatePassed   prometheus.Gauge
	regionSaving *prometheus.GaugeVec
	regionGCO2   *prometheus.GaugeVec
}

// NewExporter registers the carbonwise gauge families on a fresh registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		groupMeans: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "group",
			Name:      "mean",
			Help:      "Mean of a metric across runs with the same run_name, in canonical units (kWh, kg CO2e, ms, Wh/request, EUR).",
		}, []string{"group", "metric"}),
		groupSamples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "group",
			Name:      "samples",
			Help:      "Number of run records in the group.",
		}, []string{"group"}),
		improvement: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "comparison",
			Name:      "improvement_percent",
			Help:      "Percentage reduction from the baseline group to the optimized group.",
		}, []string{"baseline", "optimized", "metric"}),
		gateRegress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "gate",
			Name:      "regression_percent",
			Help:      "Regression of the optimized group relative to the baseline.",
		}, []string{"metric"}),
		gatePassed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "gate",
			Name:      "passed",
			Help:      "1 when the quality gate passed, 0 otherwise.",
		}),
		regionSaving: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "region",
			Name:      "alternative_improvement_percent",
			Help:      "Carbon intensity reduction of a greener region relative to the current one.",
		}, []string{"current", "region"}),
		regionGCO2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "region",
			Name:      "gco2_per_kwh",
			Help:      "Grid carbon intensity of a region.",
		}, []string{"region"}),
	}

	e.registry.MustRegister(
		e.groupMeans, e.groupSamples, e.improvement,
		e.gateRegress, e.gatePassed, e.regionSaving, e.regionGCO2,
	)
	return e
}

// Registry returns the underlying registry, e.g. for promhttp.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// ObserveGroups records every group's means and sample count.
func (e *Exporter) ObserveGroups(groups []greenops.AggregateGroup) {
	for _, g := range groups {
		for _, m := range greenops.AllMetrics() {
			e.groupMeans.WithLabelValues(g.Name, m.String()).Set(g.Value(m))
		}
		e.groupSamples.WithLabelValues(g.Name).Set(float64(g.SampleCount))
	}
}

// ObserveComparison records the per-metric improvements of cmp.
func (e *Exporter) ObserveComparison(cmp greenops.Comparison) {
	for _, m := range greenops.AllMetrics() {
		e.improvement.WithLabelValues(cmp.Baseline.Name, cmp.Optimized.Name, m.String()).
			Set(cmp.Improvements.Get(m))
	}
}

// ObserveGate records a gate outcome.
func (e *Exporter) ObserveGate(res greenops.GateResult) {
	e.gateRegress.WithLabelValues(greenops.MetricLatency.String()).Set(res.LatencyRegressPct)
	e.gateRegress.WithLabelValues(greenops.MetricSCI.String()).Set(res.SCIRegressPct)
	if res.Passed {
		e.gatePassed.Set(1)
	} else {
		e.gatePassed.Set(0)
	}
}

// ObserveRegions records the intensity of every region.
func (e *Exporter) ObserveRegions(regions []greenops.RegionFactor) {
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		// First entry wins, matching region lookups.
		if seen[r.Region] {
			continue
		}
		seen[r.Region] = true
		e.regionGCO2.WithLabelValues(r.Region).Set(r.GCO2PerKWh)
	}
}

// ObserveAlternatives records the improvement of each greener alternative to current.
func (e *Exporter) ObserveAlternatives(current string, alts []greenops.GreenerAlternative) {
	for _, a := range alts {
		e.regionSaving.WithLabelValues(current, a.Region).Set(a.ImprovementPct)
	}
}

// WriteText gathers the registry and writes it in the text exposition format.
func (e *Exporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

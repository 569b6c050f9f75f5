// Package greenops normalizes AI-inference telemetry into canonical units and
// derives comparable aggregates from it.
//
// Everything in this package is a pure function over caller-supplied slices:
// it never retains, caches, or mutates its inputs. Energy is carried in
// kilowatt-hours and emissions in kilograms CO2e; display units are a
// presentation concern handled by DisplayUnit.
package greenops

import "fmt"

// RunRecord is one telemetry record for an inference run.
//
// Energy and emissions may arrive in either of two units. A nil pointer means
// the field was absent from the source record. The kWh and kg variants take
// precedence when both are present (see NormalizeEnergyKWh and NormalizeCO2Kg).
type RunRecord struct {
	RunID     string `json:"run_id,omitempty"`
	RunName   string `json:"run_name"         validate:"required"`
	Timestamp string `json:"ts,omitempty"`

	EnergyKWh *float64 `json:"energy_kwh,omitempty" validate:"omitempty,finite,gte=0"`
	EnergyWh  *float64 `json:"energy_wh,omitempty"  validate:"omitempty,finite,gte=0"`
	CO2eKg    *float64 `json:"co2e_kg,omitempty"    validate:"omitempty,finite,gte=0"`
	CO2eG     *float64 `json:"co2e_g,omitempty"     validate:"omitempty,finite,gte=0"`

	LatencyMs       *float64 `json:"latency_ms,omitempty"     validate:"omitempty,finite,gte=0"`
	Requests        int      `json:"requests,omitempty"       validate:"gte=0"`
	SCIWhPerRequest *float64 `json:"sci_wh_per_req,omitempty" validate:"omitempty,finite,gte=0"`
	CostEUR         *float64 `json:"cost_eur,omitempty"       validate:"omitempty,finite,gte=0"`

	// Meta is passed through untouched (precision, quant, region, spec_decode, ...).
	Meta map[string]any `json:"meta,omitempty"`
}

// Float returns a pointer to v, for building RunRecord literals.
func Float(v float64) *float64 { return &v }

// valueOr returns *p, or 0 when p is nil.
func valueOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// RegionFactor is the grid carbon intensity of one region.
type RegionFactor struct {
	Region      string  `json:"region"                 yaml:"region"                 validate:"required"`
	GCO2PerKWh  float64 `json:"gco2_per_kwh"           yaml:"gco2_per_kwh"           validate:"finite,gte=0"`
	Country     string  `json:"country,omitempty"      yaml:"country,omitempty"`
	DisplayName string  `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Label returns the display name when set, otherwise the region key.
func (r RegionFactor) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Region
}

// AggregateGroup holds per-configuration means over all records sharing a run name.
// SampleCount is always at least 1.
type AggregateGroup struct {
	Name          string  `json:"name"`
	MeanEnergyKWh float64 `json:"mean_energy_kwh"`
	MeanCO2Kg     float64 `json:"mean_co2e_kg"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
	MeanSCI       float64 `json:"mean_sci_wh_per_req"`
	MeanCostEUR   float64 `json:"mean_cost_eur"`
	SampleCount   int     `json:"sample_count"`
}

// GreenerAlternative is a region with lower carbon intensity than a reference
// region, together with its percentage improvement over that reference.
type GreenerAlternative struct {
	RegionFactor

	ImprovementPct float64 `json:"improvement_pct"`

	reference float64
}

// SavedKg estimates the kg CO2e avoided by running energyKWh in this region
// instead of the reference region.
func (g GreenerAlternative) SavedKg(energyKWh float64) float64 {
	return energyKWh * (g.reference - g.GCO2PerKWh) / 1000.0
}

// Metric identifies a numeric column of an AggregateGroup.
type Metric int

const (
	MetricEnergy Metric = iota
	MetricCO2
	MetricLatency
	MetricSCI
	MetricCost
)

// String returns the metric's short name.
func (m Metric) String() string {
	switch m {
	case MetricEnergy:
		return "energy"
	case MetricCO2:
		return "co2e"
	case MetricLatency:
		return "latency"
	case MetricSCI:
		return "sci"
	case MetricCost:
		return "cost"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Value returns the group's mean for the metric.
func (g AggregateGroup) Value(m Metric) float64 {
	switch m {
	case MetricEnergy:
		return g.MeanEnergyKWh
	case MetricCO2:
		return g.MeanCO2Kg
	case MetricLatency:
		return g.MeanLatencyMs
	case MetricSCI:
		return g.MeanSCI
	case MetricCost:
		return g.MeanCostEUR
	default:
		return 0
	}
}

// AllMetrics lists metrics in report order.
func AllMetrics() []Metric {
	return []Metric{MetricEnergy, MetricCO2, MetricLatency, MetricSCI, MetricCost}
}

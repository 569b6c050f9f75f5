package greenops

import "fmt"

// GateThresholds are the maximum tolerated regressions, in percent, of the
// optimized configuration relative to the baseline.
type GateThresholds struct {
	MaxLatencyRegressPct float64 `json:"max_latency_regress_pct"`
	MaxSCIRegressPct     float64 `json:"max_sci_regress_pct"`
}

// DefaultGateThresholds returns 5% for both latency and SCI.
func DefaultGateThresholds() GateThresholds {
	return GateThresholds{
		MaxLatencyRegressPct: DefaultMaxLatencyRegressPct,
		MaxSCIRegressPct:     DefaultMaxSCIRegressPct,
	}
}

// GateResult is the outcome of a quality gate evaluation.
type GateResult struct {
	LatencyRegressPct float64        `json:"latency_regress_pct"`
	SCIRegressPct     float64        `json:"sci_regress_pct"`
	Thresholds        GateThresholds `json:"thresholds"`
	Passed            bool           `json:"passed"`
}

// EvaluateGate checks the optimized configuration's latency and SCI against
// the baseline. Both regressions must be within their limits to pass.
func EvaluateGate(cmp Comparison, limits GateThresholds) GateResult {
	lat := RegressionPct(cmp.Baseline.MeanLatencyMs, cmp.Optimized.MeanLatencyMs)
	sci := RegressionPct(cmp.Baseline.MeanSCI, cmp.Optimized.MeanSCI)
	return GateResult{
		LatencyRegressPct: lat,
		SCIRegressPct:     sci,
		Thresholds:        limits,
		Passed:            lat <= limits.MaxLatencyRegressPct && sci <= limits.MaxSCIRegressPct,
	}
}

// Reason summarizes a failed gate. It is empty when the gate passed.
func (r GateResult) Reason() string {
	if r.Passed {
		return ""
	}
	return fmt.Sprintf("quality gate failed: latency regress %.2f%% (limit %.2f%%), SCI regress %.2f%% (limit %.2f%%)",
		r.LatencyRegressPct, r.Thresholds.MaxLatencyRegressPct,
		r.SCIRegressPct, r.Thresholds.MaxSCIRegressPct)
}

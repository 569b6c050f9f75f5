package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/metrics"
)

// ExitCodeMissingGroups is the exit code of gate when the run log lacks the
// baseline or the optimized configuration.
const ExitCodeMissingGroups = 2

// GateExitError carries the process exit code of a failed quality gate
// from the command to main.
type GateExitError struct {
	ExitCode int
	Reason   string
}

func (e *GateExitError) Error() string {
	return e.Reason
}

// gateParams are the parsed flags of the gate command.
type gateParams struct {
	runLog            runLogFlags
	maxLatencyRegress float64
	maxSCIRegress     float64
	exitCode          int
	output            string
}

// NewGateCmd creates the gate command, a CI quality gate on latency and SCI regressions.
func NewGateCmd() *cobra.Command {
	var params gateParams

	cmd := &cobra.Command{
		Use:   "gate RUN_LOG",
		Short: "Fail when the optimized configuration regresses latency or SCI",
		Long: `Compares the mean latency and SCI of the optimized configuration against the
baseline and fails when either got worse by more than its limit, in percent.
Unlike compare, the two groups are located by exact run_name: --baseline and
--optimized must name them verbatim.

Exit codes:
  0  gate passed
  1  gate failed (override with --exit-code or gate.exit_code; 0 only warns)
  2  the run log has no baseline or no optimized runs`,
		Example: `  # Default 5% limits
  carbonwise gate run_log.jsonl

  # Tighter latency budget, custom exit code
  carbonwise gate run_log.jsonl --max-latency-regress 2 --exit-code 3

  # Publish the gate result for a Prometheus pushgateway
  carbonwise gate run_log.jsonl --output prometheus`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeGate(cmd, args[0], params)
		},
	}

	params.runLog.register(cmd)
	cmd.Flags().Float64Var(&params.maxLatencyRegress, "max-latency-regress", 0,
		"maximum tolerated latency regression in percent (default from config, 5)")
	cmd.Flags().Float64Var(&params.maxSCIRegress, "max-sci-regress", 0,
		"maximum tolerated SCI regression in percent (default from config, 5)")
	cmd.Flags().IntVar(&params.exitCode, "exit-code", 1, "exit code when the gate fails (0-255)")
	cmd.Flags().StringVarP(&params.output, "output", "o", config.OutputTable, "output format: table or prometheus")

	return cmd
}

// resolveGateThresholds merges explicitly set flags over the gate config.
func resolveGateThresholds(cmd *cobra.Command, params gateParams, cfg *config.Config) (greenops.GateThresholds, int, error) {
	limits := cfg.Gate.Thresholds()
	exitCode := cfg.Gate.ExitCode

	if cmd.Flags().Changed("max-latency-regress") {
		limits.MaxLatencyRegressPct = params.maxLatencyRegress
	}
	if cmd.Flags().Changed("max-sci-regress") {
		limits.MaxSCIRegressPct = params.maxSCIRegress
	}
	if cmd.Flags().Changed("exit-code") {
		exitCode = params.exitCode
	}

	if limits.MaxLatencyRegressPct < 0 || limits.MaxSCIRegressPct < 0 {
		return limits, 0, fmt.Errorf("%w: latency %.2f, sci %.2f", config.ErrNegativeThreshold,
			limits.MaxLatencyRegressPct, limits.MaxSCIRegressPct)
	}
	if err := config.ValidateExitCode(exitCode); err != nil {
		return limits, 0, err
	}
	return limits, exitCode, nil
}

func executeGate(cmd *cobra.Command, path string, params gateParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()
	params.runLog.resolve(cmd, cfg)

	if params.output != config.OutputTable && params.output != config.OutputPrometheus {
		return fmt.Errorf("%w: %q (gate supports table, prometheus)", config.ErrInvalidOutputFormat, params.output)
	}

	limits, exitCode, err := resolveGateThresholds(cmd, params, cfg)
	if err != nil {
		return err
	}

	audit := newAuditContext(ctx, "gate", map[string]string{"run_log": path})
	result, err := loadRunLog(ctx, path, params.runLog, cfg, audit)
	if err != nil {
		return err
	}

	cmp, ok := greenops.CompareWith(ctx, result.Groups, params.runLog.baseline, params.runLog.optimized,
		greenops.MatchExact)
	if !ok {
		cmd.Println("Missing baseline or optimized runs.")
		return &GateExitError{
			ExitCode: ExitCodeMissingGroups,
			Reason: fmt.Sprintf("quality gate: run log lacks a run_name %q or %q",
				params.runLog.baseline, params.runLog.optimized),
		}
	}

	res := greenops.EvaluateGate(cmp, limits)
	logger.Info().Ctx(ctx).
		Float64("latency_regress_pct", res.LatencyRegressPct).
		Float64("sci_regress_pct", res.SCIRegressPct).
		Bool("passed", res.Passed).
		Msg("quality gate evaluated")

	if params.output == config.OutputPrometheus {
		exp := metrics.NewExporter()
		exp.ObserveComparison(cmp)
		exp.ObserveGate(res)
		if err = exp.WriteText(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		printGateResult(cmd, res)
	}

	audit.logSuccess(ctx, len(result.Records), len(result.Groups))

	if res.Passed {
		return nil
	}
	if exitCode == 0 {
		cmd.PrintErrf("WARNING: %s\n", res.Reason())
		return nil
	}
	return &GateExitError{ExitCode: exitCode, Reason: res.Reason()}
}

func printGateResult(cmd *cobra.Command, res greenops.GateResult) {
	cmd.Printf("Latency regress: %.2f%% (limit %s%%)\n",
		res.LatencyRegressPct, greenops.FormatFloat(res.Thresholds.MaxLatencyRegressPct, 1))
	cmd.Printf("SCI regress: %.2f%% (limit %s%%)\n",
		res.SCIRegressPct, greenops.FormatFloat(res.Thresholds.MaxSCIRegressPct, 1))
	if res.Passed {
		cmd.Println("QUALITY GATE: PASS ✅")
	} else {
		cmd.Println("QUALITY GATE: FAIL ❌")
	}
}

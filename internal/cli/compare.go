package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
)

// compareParams are the parsed flags of the compare command.
type compareParams struct {
	runLog runLogFlags
	output string
	plain  bool
}

// NewCompareCmd creates the compare command, which aggregates a run log by
// run name and reports the improvement of the optimized configuration.
func NewCompareCmd() *cobra.Command {
	var params compareParams

	cmd := &cobra.Command{
		Use:   "compare RUN_LOG",
		Short: "Aggregate a run log and compare baseline and optimized configurations",
		Long: `Aggregates the records of a run log (JSON array, JSON lines or CSV) by run_name
and prints the mean energy, CO2e, latency, SCI and cost of every group.

When one group matches the baseline label and another the optimized label
(case-insensitive substring match), the percentage improvement of each metric
is reported as well. Otherwise improvements are omitted as not applicable.`,
		Example: `  # Table output
  carbonwise compare run_log.jsonl

  # Custom group labels
  carbonwise compare runs.csv --baseline fp16 --optimized int8

  # Machine-readable output
  carbonwise compare run_log.jsonl --output json
  carbonwise compare run_log.jsonl --output ndjson
  carbonwise compare run_log.jsonl --output prometheus

  # Large logs: aggregate with 8 workers
  carbonwise compare big_log.jsonl --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeCompare(cmd, args[0], params)
		},
	}

	params.runLog.register(cmd)
	cmd.Flags().StringVarP(&params.output, "output", "o", "",
		"output format: table, json, ndjson or prometheus (default from config)")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "disable styling of table output")

	return cmd
}

func executeCompare(cmd *cobra.Command, path string, params compareParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()
	params.runLog.resolve(cmd, cfg)

	format, err := resolveOutputFormat(params.output, cfg)
	if err != nil {
		return err
	}

	audit := newAuditContext(ctx, "compare", map[string]string{
		"run_log": path,
		"output":  format,
	})

	result, err := loadRunLog(ctx, path, params.runLog, cfg, audit)
	if err != nil {
		return err
	}

	view := newCompareView(result.Groups, nil)
	if cmp, ok := greenops.Compare(ctx, result.Groups, params.runLog.baseline, params.runLog.optimized); ok {
		view = newCompareView(result.Groups, &cmp)
	} else {
		logger.Debug().Ctx(ctx).
			Str("baseline", params.runLog.baseline).
			Str("optimized", params.runLog.optimized).
			Msg("no baseline/optimized pair, improvements omitted")
	}

	if err = RenderCompareOutput(cmd, format, params.plain, cfg.Output.Precision, view); err != nil {
		audit.logFailure(ctx, err)
		return err
	}

	audit.logSuccess(ctx, len(result.Records), len(result.Groups))
	return nil
}

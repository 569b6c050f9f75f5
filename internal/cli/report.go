package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/ingest"
)

// reportParams are the parsed flags of the report command.
type reportParams struct {
	runLog    runLogFlags
	out       string
	regions   string
	current   string
	top       int
	energyKWh float64
}

// NewReportCmd creates the report command, which writes a Markdown summary of a run log.
func NewReportCmd() *cobra.Command {
	var params reportParams

	cmd := &cobra.Command{
		Use:   "report RUN_LOG",
		Short: "Write a Markdown report comparing baseline and optimized runs",
		Long: `Writes a Markdown report with the mean energy, CO2e, latency, SCI and cost of
the baseline and optimized configurations, their percentage change, every run
group, the everyday equivalent of the CO2e saved and, with --regions and
--current, the greenest alternative regions.`,
		Example: `  # Write .carbonwise/reports/report.md inside a project, report.md elsewhere
  carbonwise report run_log.jsonl

  # Print to stdout
  carbonwise report run_log.jsonl --out -

  # Include region advice for the optimized run's energy
  carbonwise report run_log.jsonl --regions region_factors.json --current us-east-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(cmd, args[0], params)
		},
	}

	params.runLog.register(cmd)
	cmd.Flags().StringVar(&params.out, "out", "",
		"output file, or - for stdout (default: .carbonwise/reports/report.md inside a project, else report.md)")
	cmd.Flags().StringVar(&params.regions, "regions", "", "region factor table (JSON or YAML) for region advice")
	cmd.Flags().StringVar(&params.current, "current", "", "current region for region advice (default from config)")
	cmd.Flags().IntVar(&params.top, "top", 0, "number of greener regions to list (default from config)")
	cmd.Flags().Float64Var(&params.energyKWh, "energy-kwh", 0,
		"energy used to estimate kg saved per region (default: optimized mean energy)")

	return cmd
}

func executeReport(cmd *cobra.Command, path string, params reportParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()
	params.runLog.resolve(cmd, cfg)
	if params.out == "" {
		params.out = config.DefaultReportPath(config.GetResolvedProjectDir())
	}
	if params.regions == "" {
		params.regions = cfg.Regions.Table
	}
	if params.current == "" {
		params.current = cfg.Regions.Current
	}
	if params.top <= 0 {
		params.top = cfg.Regions.TopK
	}
	if params.regions != "" && params.current == "" {
		return errors.New("--current is required with --regions")
	}

	audit := newAuditContext(ctx, "report", map[string]string{
		"run_log": path,
		"regions": params.regions,
		"out":     params.out,
	})

	result, regions, err := loadReportInputs(ctx, path, params, cfg, audit)
	if err != nil {
		return err
	}

	in := reportInput{
		Generated:     time.Now(),
		Groups:        result.Groups,
		Baseline:      params.runLog.baseline,
		Optimized:     params.runLog.optimized,
		KWhEUR:        cfg.Cost.KWhEUR,
		Regions:       regions,
		CurrentRegion: params.current,
		TopK:          params.top,
		EnergyKWh:     params.energyKWh,
	}
	if cmp, ok := greenops.Compare(ctx, result.Groups, params.runLog.baseline, params.runLog.optimized); ok {
		in.Comparison = &cmp
		if in.EnergyKWh <= 0 {
			in.EnergyKWh = cmp.Optimized.MeanEnergyKWh
		}
	}

	text := buildMarkdownReport(in)

	if params.out == "-" {
		if _, err = fmt.Fprint(cmd.OutOrStdout(), text); err != nil {
			return err
		}
	} else {
		if err = writeReportFile(params.out, text); err != nil {
			audit.logFailure(ctx, err)
			return err
		}
		cmd.Printf("Wrote %s\n", params.out)
	}

	audit.logSuccess(ctx, len(result.Records), len(result.Groups))
	return nil
}

// loadReportInputs reads the run log and the optional region table concurrently.
func loadReportInputs(
	ctx context.Context,
	path string,
	params reportParams,
	cfg *config.Config,
	audit *auditContext,
) (*runLogResult, []greenops.RegionFactor, error) {
	var (
		result  *runLogResult
		regions []greenops.RegionFactor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = loadRunLog(gctx, path, params.runLog, cfg, audit)
		return err
	})
	if params.regions != "" {
		g.Go(func() error {
			var err error
			regions, err = ingest.LoadRegionFactors(gctx, params.regions, ingest.FormatAuto, params.runLog.strict)
			if err != nil {
				audit.logFailure(gctx, err)
				return fmt.Errorf("loading region table: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, regions, nil
}

func writeReportFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

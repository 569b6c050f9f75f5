package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationLenientConfig marks commands that must run even when the
// configuration on disk is invalid, so the user can repair it.
const annotationLenientConfig = "carbonwise/lenient-config"

// NewRootCmd creates the root Cobra command for the carbonwise CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "carbonwise",
		Short: "Compare the energy, emissions and latency of AI inference runs",
		Long: `carbonwise aggregates per-run inference telemetry (energy, CO2e, latency,
SCI) by configuration, reports the improvement of an optimized configuration
over its baseline, enforces a quality gate in CI and recommends greener
cloud regions from a grid carbon-intensity table.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, projectDir, lookupEnv); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .carbonwise/config.yaml (default: nearest .carbonwise above the working directory)")
	cmd.AddCommand(
		NewCompareCmd(), NewReportCmd(), NewGateCmd(),
		newRegionsCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig resolves the project directory and installs the layered
// configuration as the global config for this invocation.
func loadConfig(cmd *cobra.Command, projectFlag string, lookupEnv func(string) (string, bool)) error {
	ctx := cmd.Context()

	startDir, err := os.Getwd()
	if err != nil {
		startDir = ""
	}
	if projectFlag == "" {
		if v, ok := lookupEnv(config.EnvProjectDir); ok {
			projectFlag = v
		}
	}
	projectDir := config.ResolveProjectDir(ctx, projectFlag, startDir)
	config.SetResolvedProjectDir(projectDir)

	cfg, err := config.NewWithProjectDir(ctx, projectDir)
	if err != nil {
		if cmd.Annotations[annotationLenientConfig] == "" {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cmd.PrintErrf("Warning: %v\n", err)
		cfg = config.Default()
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Compare the baseline and optimized configurations of a run log
  carbonwise compare run_log.jsonl

  # Same, as JSON for further processing
  carbonwise compare run_log.jsonl --output json

  # Write a Markdown report with region advice
  carbonwise report run_log.jsonl --out report.md --regions region_factors.json --current us-east-1

  # Fail CI when the optimized configuration regresses latency or SCI by more than 5%
  carbonwise gate run_log.jsonl --max-latency-regress 5 --max-sci-regress 5

  # Find greener regions than the current one
  carbonwise regions advise region_factors.json --current eu-west-1 --energy-kwh 0.92

  # Browse the region table interactively
  carbonwise regions list region_factors.json --interactive

  # Initialize configuration
  carbonwise config init`

// newRegionsCmd creates the regions command group.
func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "regions", Short: "Grid carbon-intensity commands"}
	cmd.AddCommand(NewRegionsListCmd(), NewRegionsAdviseCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

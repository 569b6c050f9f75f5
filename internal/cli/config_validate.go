package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the global configuration, the project-local overlay and the
CARBONWISE_* environment variables as they are merged for this directory.

This includes:
- YAML syntax of both files
- Output format, gate thresholds and exit code
- regions.top_k and regions.sort
- cost.kwh_eur`,
		Example: `  # Validate current configuration
  carbonwise config validate

  # Validate and show the effective settings
  carbonwise config validate --verbose`,
		Annotations: map[string]string{annotationLenientConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate reloads the configuration strictly, since the root
// command tolerates an invalid one for this command.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg, err := config.NewWithProjectDir(cmd.Context(), config.GetResolvedProjectDir())
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	} else {
		cmd.Println("  No project directory")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Labels: %s / %s\n", cfg.Compare.BaselineLabel, cfg.Compare.OptimizedLabel)
	cmd.Printf("  Gate limits: latency %.1f%%, SCI %.1f%%, exit code %d\n",
		cfg.Gate.MaxLatencyRegressPct, cfg.Gate.MaxSCIRegressPct, cfg.Gate.ExitCode)
	cmd.Printf("  Electricity price: %.2f EUR/kWh\n", cfg.Cost.KWhEUR)
}

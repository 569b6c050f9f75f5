package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one effective configuration value",
		Example: `  carbonwise config get gate.max_latency_regress_pct
  carbonwise config get output.default_format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatSettingValue(v))
			return err
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every effective configuration value",
		Example: `  carbonwise config list
  carbonwise config list --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.GetGlobalConfig().List()
			if err != nil {
				return err
			}

			if format == config.OutputJSON {
				out := make(map[string]any, len(settings))
				for _, s := range settings {
					out[s.Key] = s.Value
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabwriterPadding, ' ', 0)
			for _, s := range settings {
				if _, err = fmt.Fprintf(tw, "%s\t%s\n", s.Key, formatSettingValue(s.Value)); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&format, "format", config.OutputTable, "output format: table or json")
	return cmd
}

func formatSettingValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

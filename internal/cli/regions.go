package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/ingest"
	"github.com/rshade/carbonwise/internal/metrics"
	"github.com/rshade/carbonwise/internal/tui"
)

// errNoRegionTable is returned when neither an argument nor regions.table names a table.
var errNoRegionTable = errors.New("no region table given (pass a path or set regions.table)")

// regionTableFlags are the flags shared by the regions subcommands.
type regionTableFlags struct {
	format string
	strict bool
	output string
	plain  bool
}

func (f *regionTableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "table encoding: json or yaml (default: from the file extension)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject entries with an empty region or a negative or non-finite intensity")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format: table, json, ndjson or prometheus (default from config)")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "disable styling of table output")
}

// loadRegionTable resolves the table path and parses it.
func loadRegionTable(ctx context.Context, args []string, flags regionTableFlags, cfg *config.Config) ([]greenops.RegionFactor, error) {
	path := cfg.Regions.Table
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, errNoRegionTable
	}

	format, err := ingest.ParseFormat(flags.format)
	if err != nil {
		return nil, err
	}
	regions, err := ingest.LoadRegionFactors(ctx, path, format, flags.strict)
	if err != nil {
		return nil, fmt.Errorf("loading region table: %w", err)
	}
	return regions, nil
}

// NewRegionsListCmd creates the regions list command.
func NewRegionsListCmd() *cobra.Command {
	var (
		flags       regionTableFlags
		sortExpr    string
		current     string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "list [TABLE]",
		Short: "List a region carbon-intensity table, sorted",
		Long: `Lists the regions of a carbon-intensity table sorted by region name or by
gCO2/kWh, in either direction. Regions with equal keys keep their table order.

With --interactive on a terminal the table is browsable: press c to sort by
carbon intensity, n to sort by region name (pressing the active column again
reverses it), o to reverse and q to quit.`,
		Example: `  # Greenest first
  carbonwise regions list region_factors.json

  # By name, descending
  carbonwise regions list region_factors.yaml --sort region:desc

  # Browse interactively, marking the current region
  carbonwise regions list region_factors.json --interactive --current us-east-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()

			if sortExpr == "" {
				sortExpr = cfg.Regions.Sort
			}
			field, order, err := greenops.ParseSortExpression(sortExpr)
			if err != nil {
				return err
			}
			format, err := resolveOutputFormat(flags.output, cfg)
			if err != nil {
				return err
			}
			if current == "" {
				current = cfg.Regions.Current
			}

			regions, err := loadRegionTable(ctx, args, flags, cfg)
			if err != nil {
				return err
			}

			if format == config.OutputTable &&
				tui.DetectOutputMode(interactive, false, flags.plain) == tui.OutputModeInteractive {
				return runInteractiveRegions(regions, current, tui.SortState{Field: field, Order: order})
			}

			sorted := greenops.SortRegions(regions, field, order)
			return renderRegionList(cmd, format, flags.plain, sorted, current)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sortExpr, "sort", "", "sort as field[:order]; field is region or carbon, order asc or desc")
	cmd.Flags().StringVar(&current, "current", "", "region to mark as current")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the table interactively")

	return cmd
}

func runInteractiveRegions(regions []greenops.RegionFactor, current string, sort tui.SortState) error {
	p := tea.NewProgram(tui.NewRegionModel(regions, current, sort, 0), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

func renderRegionList(cmd *cobra.Command, format string, plain bool, regions []greenops.RegionFactor, current string) error {
	w := cmd.OutOrStdout()

	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(regions)
	case config.OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range regions {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding NDJSON: %w", err)
			}
		}
		return nil
	case config.OutputPrometheus:
		exp := metrics.NewExporter()
		exp.ObserveRegions(regions)
		return exp.WriteText(w)
	}

	if tui.DetectOutputMode(false, false, plain) != tui.OutputModePlain {
		if _, err := fmt.Fprintln(w, tui.HeaderStyle.Render(fmt.Sprintf("Regions (%d)", len(regions)))); err != nil {
			return err
		}
	}
	return renderRegionTable(w, regions, current)
}

// renderRegionTable writes a tab-aligned region table; the current region is
// marked with an asterisk.
func renderRegionTable(w io.Writer, regions []greenops.RegionFactor, current string) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, " \tREGION\tNAME\tCOUNTRY\tGCO2/KWH\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range regions {
		marker := ""
		if current != "" && r.Region == current {
			marker = "*"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			marker, r.Region, dashIfEmpty(r.DisplayName), dashIfEmpty(r.Country),
			greenops.FormatFloat(r.GCO2PerKWh, 0)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// adviceOutput is the JSON shape of regions advise.
type adviceOutput struct {
	Current      *greenops.RegionFactor `json:"current"`
	EnergyKWh    float64                `json:"energy_kwh,omitempty"`
	Alternatives []adviceEntry          `json:"alternatives"`
}

type adviceEntry struct {
	greenops.GreenerAlternative

	SavedKg *float64 `json:"saved_kg,omitempty"`
}

// NewRegionsAdviseCmd creates the regions advise command.
func NewRegionsAdviseCmd() *cobra.Command {
	var (
		flags     regionTableFlags
		current   string
		top       int
		energyKWh float64
	)

	cmd := &cobra.Command{
		Use:   "advise [TABLE]",
		Short: "Recommend regions with a lower carbon intensity than the current one",
		Long: `Lists up to --top regions with a strictly lower gCO2/kWh than the current
region, greenest first, with the percentage of CO2e avoided per kWh. With
--energy-kwh the kg CO2e saved for that much energy is estimated as well.

A current region missing from the table yields no recommendations.`,
		Example: `  # Top 3 greener regions than eu-west-1
  carbonwise regions advise region_factors.json --current eu-west-1

  # Estimate savings for a 0.92 kWh run
  carbonwise regions advise region_factors.json --current eu-west-1 --energy-kwh 0.92`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()

			if current == "" {
				current = cfg.Regions.Current
			}
			if current == "" {
				return errors.New("--current is required")
			}
			if top <= 0 {
				top = cfg.Regions.TopK
			}
			if energyKWh < 0 {
				return fmt.Errorf("--energy-kwh: %w", greenops.ErrNegativeValue)
			}
			format, err := resolveOutputFormat(flags.output, cfg)
			if err != nil {
				return err
			}

			regions, err := loadRegionTable(ctx, args, flags, cfg)
			if err != nil {
				return err
			}

			return renderAdvice(cmd, format, flags.plain, regions, current, top, energyKWh)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&current, "current", "", "current region (default from config)")
	cmd.Flags().IntVar(&top, "top", 0, "number of alternatives (default from config, 3)")
	cmd.Flags().Float64Var(&energyKWh, "energy-kwh", 0, "energy of your run, to estimate kg CO2e saved")

	return cmd
}

func renderAdvice(
	cmd *cobra.Command,
	format string,
	plain bool,
	regions []greenops.RegionFactor,
	current string,
	top int,
	energyKWh float64,
) error {
	w := cmd.OutOrStdout()
	cur, known := greenops.LookupRegion(regions, current)
	alts := greenops.TopGreenerAlternatives(regions, current, top)

	logger.Debug().Ctx(cmd.Context()).
		Str("current", current).
		Bool("known", known).
		Int("alternatives", len(alts)).
		Msg("region advice computed")

	switch format {
	case config.OutputJSON, config.OutputNDJSON:
		out := adviceOutput{EnergyKWh: energyKWh, Alternatives: make([]adviceEntry, 0, len(alts))}
		if known {
			out.Current = &cur
		}
		for _, a := range alts {
			e := adviceEntry{GreenerAlternative: a}
			if energyKWh > 0 {
				saved := a.SavedKg(energyKWh)
				e.SavedKg = &saved
			}
			out.Alternatives = append(out.Alternatives, e)
		}
		enc := json.NewEncoder(w)
		if format == config.OutputJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(out)
	case config.OutputPrometheus:
		exp := metrics.NewExporter()
		exp.ObserveRegions(regions)
		exp.ObserveAlternatives(current, alts)
		return exp.WriteText(w)
	}

	if !known {
		_, err := fmt.Fprintf(w, "Current region %s not in table.\n", current)
		return err
	}

	if tui.DetectOutputMode(false, false, plain) != tui.OutputModePlain {
		_, err := fmt.Fprint(w, tui.RenderAlternatives(cur, alts, energyKWh))
		return err
	}

	return renderAdvicePlain(w, cur, alts, energyKWh)
}

func renderAdvicePlain(w io.Writer, cur greenops.RegionFactor, alts []greenops.GreenerAlternative, energyKWh float64) error {
	if len(alts) == 0 {
		_, err := fmt.Fprintf(w, "No region in the table is greener than %s (%s gCO2/kWh).\n",
			cur.Region, greenops.FormatFloat(cur.GCO2PerKWh, 0))
		return err
	}
	if _, err := fmt.Fprintln(w, "Top greener regions (by gCO2/kWh):"); err != nil {
		return err
	}
	for _, a := range alts {
		if _, err := fmt.Fprintln(w, formatAdvice(a, energyKWh)); err != nil {
			return err
		}
	}
	return nil
}

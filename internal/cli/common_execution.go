package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonwise/internal/config"
	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/ingest"
	"github.com/rshade/carbonwise/internal/logging"
)

// auditContext records the outcome of one command in the log.
type auditContext struct {
	traceID string
	params  map[string]string
	start   time.Time
	command string
}

// newAuditContext creates a new audit context.
func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		traceID: logging.TraceIDFromContext(ctx),
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

// logFailure logs an audit entry for a failed operation.
func (a *auditContext) logFailure(ctx context.Context, err error) {
	logging.FromContext(ctx).Warn().
		Str("component", "audit").
		Str("command", a.command).
		Interface("params", a.params).
		Err(err).
		Dur("duration", time.Since(a.start)).
		Msg("command failed")
}

// logSuccess logs an audit entry for a successful operation.
func (a *auditContext) logSuccess(ctx context.Context, records, groups int) {
	logging.FromContext(ctx).Info().
		Str("component", "audit").
		Str("command", a.command).
		Interface("params", a.params).
		Int("record_count", records).
		Int("group_count", groups).
		Dur("duration", time.Since(a.start)).
		Msg("command completed")
}

// runLogFlags are the run-log options shared by compare, report and gate.
// Unset flags fall back to the compare section of the configuration.
type runLogFlags struct {
	format    string
	strict    bool
	baseline  string
	optimized string
	workers   int
	chunkSize int
}

func (f *runLogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "",
		"run log encoding: json, jsonl or csv (default: from the file extension)")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"reject records with missing run_name, negative or non-finite values, or an unsupported schema_version")
	cmd.Flags().StringVar(&f.baseline, "baseline", "", "label matching the baseline run group (default \"baseline\")")
	cmd.Flags().StringVar(&f.optimized, "optimized", "", "label matching the optimized run group (default \"optimized\")")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "aggregate with N concurrent workers (default from config, 1 = sequential)")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", 0, "records per concurrent aggregation chunk")
}

// resolve fills unset flags from cfg.
func (f *runLogFlags) resolve(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("strict") {
		f.strict = cfg.Compare.Strict
	}
	if f.baseline == "" {
		f.baseline = cfg.Compare.BaselineLabel
	}
	if f.optimized == "" {
		f.optimized = cfg.Compare.OptimizedLabel
	}
	if f.workers <= 0 {
		f.workers = cfg.Compare.Workers
	}
	if f.chunkSize <= 0 {
		f.chunkSize = cfg.Compare.ChunkSize
	}
}

// runLogResult is a loaded and aggregated run log.
type runLogResult struct {
	Records []greenops.RunRecord
	Groups  []greenops.AggregateGroup
}

// loadRunLog parses the run log at path and aggregates it by run name.
func loadRunLog(
	ctx context.Context,
	path string,
	flags runLogFlags,
	cfg *config.Config,
	audit *auditContext,
) (*runLogResult, error) {
	log := logging.FromContext(ctx)

	format, err := ingest.ParseFormat(flags.format)
	if err != nil {
		audit.logFailure(ctx, err)
		return nil, err
	}

	records, err := ingest.LoadRunRecords(ctx, path, ingest.Options{
		Format:       format,
		Strict:       flags.strict,
		AssignRunIDs: true,
		KWhEUR:       cfg.Cost.KWhEUR,
	})
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("run_log_path", path).Msg("failed to load run log")
		audit.logFailure(ctx, err)
		return nil, fmt.Errorf("loading run log: %w", err)
	}

	groups, err := aggregate(ctx, records, flags)
	if err != nil {
		audit.logFailure(ctx, err)
		return nil, fmt.Errorf("aggregating run log: %w", err)
	}
	log.Debug().Ctx(ctx).
		Int("record_count", len(records)).
		Int("group_count", len(groups)).
		Msg("run log aggregated")

	return &runLogResult{Records: records, Groups: groups}, nil
}

func aggregate(ctx context.Context, records []greenops.RunRecord, flags runLogFlags) ([]greenops.AggregateGroup, error) {
	if flags.workers <= 1 {
		return greenops.Aggregate(records), nil
	}
	return greenops.AggregateConcurrent(ctx, records, greenops.AggregateOptions{
		ChunkSize: flags.chunkSize,
		Workers:   flags.workers,
	})
}

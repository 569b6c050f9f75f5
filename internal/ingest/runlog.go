package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/logging"
)

// maxLineBytes bounds a single JSONL record; meta blocks can be large.
const maxLineBytes = 4 * 1024 * 1024

// Options controls how run logs are read.
type Options struct {
	// Format forces an encoding. FormatAuto infers it from the file extension,
	// and for JSON content from the first non-space byte.
	Format Format
	// Strict validates every record and the schema version.
	Strict bool
	// AssignRunIDs gives records without a run_id a fresh ULID.
	AssignRunIDs bool
	// KWhEUR, when positive, fills cost_eur from energy for records that carry
	// energy but no cost.
	KWhEUR float64
}

// LoadRunRecords reads and parses the run log at path.
func LoadRunRecords(ctx context.Context, path string, opts Options) ([]greenops.RunRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_run_log").
		Str("run_log_path", path).
		Msg("loading run log")

	if opts.Format == FormatAuto {
		format, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Str("run_log_path", path).
			Msg("failed to read run log")
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	log.Debug().
		Str("component", "ingest").
		Int("file_size_bytes", len(data)).
		Msg("run log read successfully")

	return ParseRunRecords(ctx, data, opts)
}

// ParseRunRecords parses run records from data and applies opts.
func ParseRunRecords(ctx context.Context, data []byte, opts Options) ([]greenops.RunRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "parse_run_log").
		Str("format", string(opts.Format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing run log")

	format := opts.Format
	if format == FormatAuto || format == FormatJSON || format == FormatJSONL {
		format = sniffJSON(data)
	}

	var (
		records []greenops.RunRecord
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = parseJSONArray(data)
	case FormatJSONL:
		records, err = parseJSONLines(ctx, data)
	case FormatCSV:
		records, err = parseCSV(ctx, data)
	default:
		err = fmt.Errorf("%w: %q for run logs", ErrUnsupportedFormat, format)
	}
	if err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Msg("failed to parse run log")
		return nil, err
	}

	if err = finish(ctx, records, opts); err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "ingest").
		Int("record_count", len(records)).
		Msg("run log parsed successfully")

	return records, nil
}

func parseJSONArray(data []byte) ([]greenops.RunRecord, error) {
	var records []greenops.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing run log JSON: %w", err)
	}
	if records == nil {
		records = []greenops.RunRecord{}
	}
	return records, nil
}

// parseJSONLines reads one record per non-blank line.
func parseJSONLines(ctx context.Context, data []byte) ([]greenops.RunRecord, error) {
	records := make([]greenops.RunRecord, 0, bytes.Count(data, []byte{'\n'})+1)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r greenops.RunRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing run log line %d: %w", lineNo, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning run log: %w", err)
	}
	return records, nil
}

// finish applies the post-parse steps shared by every format.
func finish(ctx context.Context, records []greenops.RunRecord, opts Options) error {
	if opts.Strict {
		for i, r := range records {
			if err := ValidateRunRecord(r); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
	}

	if err := CheckSchemaVersions(ctx, records, opts.Strict); err != nil {
		return err
	}

	if opts.AssignRunIDs {
		AssignRunIDs(ctx, records)
	}
	if opts.KWhEUR > 0 {
		FillCost(records, opts.KWhEUR)
	}
	return nil
}

// FillCost sets cost_eur to energy times kwhEUR on records that report energy
// but no cost. Records that already carry a cost are left alone.
func FillCost(records []greenops.RunRecord, kwhEUR float64) int {
	filled := 0
	for i := range records {
		r := &records[i]
		if r.CostEUR != nil || !greenops.HasEnergy(*r) {
			continue
		}
		r.CostEUR = greenops.Float(greenops.NormalizeEnergyKWh(*r) * kwhEUR)
		filled++
	}
	return filled
}

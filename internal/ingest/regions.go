package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/logging"
)

// LoadRegionFactors reads a region intensity table from a JSON or YAML file.
// The format follows the extension unless format is set.
func LoadRegionFactors(ctx context.Context, path string, format Format, strict bool) ([]greenops.RegionFactor, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_regions").
		Str("regions_path", path).
		Msg("loading region table")

	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Str("regions_path", path).
			Msg("failed to read region table")
		return nil, fmt.Errorf("reading region table: %w", err)
	}

	return ParseRegionFactors(ctx, data, format, strict)
}

// ParseRegionFactors parses a region table. Entry order is preserved; it is
// the tie-break order for every region sort.
func ParseRegionFactors(ctx context.Context, data []byte, format Format, strict bool) ([]greenops.RegionFactor, error) {
	log := logging.FromContext(ctx)

	var regions []greenops.RegionFactor
	switch format {
	case FormatJSON, FormatAuto:
		if err := json.Unmarshal(data, &regions); err != nil {
			return nil, fmt.Errorf("parsing region table JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &regions); err != nil {
			return nil, fmt.Errorf("parsing region table YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q for region tables", ErrUnsupportedFormat, format)
	}

	seen := make(map[string]bool, len(regions))
	for i, r := range regions {
		if strict {
			if err := ValidateRegionFactor(r); err != nil {
				return nil, fmt.Errorf("region %d: %w", i+1, err)
			}
		}
		if seen[r.Region] {
			log.Warn().
				Str("component", "ingest").
				Str("region", r.Region).
				Msg("duplicate region key; the first entry is used for lookups")
		}
		seen[r.Region] = true
	}

	if regions == nil {
		regions = []greenops.RegionFactor{}
	}

	log.Debug().
		Str("component", "ingest").
		Int("region_count", len(regions)).
		Msg("region table parsed successfully")

	return regions, nil
}

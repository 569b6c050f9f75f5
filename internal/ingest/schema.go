package ingest

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"

	"github.com/rshade/carbonwise/internal/greenops"
	"github.com/rshade/carbonwise/internal/logging"
)

// SupportedSchemaConstraint is the range of tracker schema versions this
// release understands. Records without meta.schema_version are accepted.
const SupportedSchemaConstraint = "^1.0.0"

// schemaVersionKey is the meta key the tracker stamps on every record.
const schemaVersionKey = "schema_version"

// CheckSchemaVersions compares each record's meta.schema_version against
// SupportedSchemaConstraint. Unparseable or unsupported versions are logged
// once per distinct value; in strict mode the first one is returned as an error.
func CheckSchemaVersions(ctx context.Context, records []greenops.RunRecord, strict bool) error {
	log := logging.FromContext(ctx)

	constraint, err := semver.NewConstraint(SupportedSchemaConstraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}

	seen := make(map[string]bool)
	for i, r := range records {
		raw, ok := r.Meta[schemaVersionKey].(string)
		if !ok || raw == "" || seen[raw] {
			continue
		}
		seen[raw] = true

		v, parseErr := semver.NewVersion(raw)
		if parseErr == nil && constraint.Check(v) {
			continue
		}

		reason := "unsupported"
		if parseErr != nil {
			reason = parseErr.Error()
		}
		log.Warn().
			Str("component", "ingest").
			Str("schema_version", raw).
			Str("supported", SupportedSchemaConstraint).
			Str("reason", reason).
			Int("record", i+1).
			Msg("run log schema version outside supported range")

		if strict {
			return fmt.Errorf("%w: record %d has %s %q (supported %s)",
				ErrIncompatibleSchema, i+1, schemaVersionKey, raw, SupportedSchemaConstraint)
		}
	}
	return nil
}

// AssignRunIDs gives every record without a run_id a new ULID and returns
// how many were assigned.
func AssignRunIDs(ctx context.Context, records []greenops.RunRecord) int {
	assigned := 0
	for i := range records {
		if records[i].RunID != "" {
			continue
		}
		records[i].RunID = ulid.Make().String()
		assigned++
	}
	if assigned > 0 {
		logging.FromContext(ctx).Debug().
			Str("component", "ingest").
			Int("assigned", assigned).
			Msg("assigned run ids")
	}
	return assigned
}

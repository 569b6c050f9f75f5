// Package ingest reads carbonwise run logs and region tables from disk.
//
// Run logs are JSON arrays, line-delimited JSON (one record per line, the
// format written by the tracker) or CSV with a header row. Region tables are
// JSON or YAML lists. Parsing is lenient by default: absent metrics stay
// absent and the core treats them as zero. Strict mode validates every
// record and rejects negative or non-finite values.
package ingest

import "errors"

var (
	// ErrUnsupportedFormat is returned for a file extension or format name ingest cannot read.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrInvalidRecord is returned in strict mode when a record fails validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrIncompatibleSchema is returned in strict mode when meta.schema_version
	// does not satisfy SupportedSchemaConstraint.
	ErrIncompatibleSchema = errors.New("incompatible schema version")
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

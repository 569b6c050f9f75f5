package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Generated output inside a project-local .carbonwise directory.
const (
	// ReportsDirName holds reports written without an explicit --out.
	ReportsDirName = "reports"
	// DefaultReportName is the file name of a report written without --out.
	DefaultReportName = "report.md"
)

// ignoredEntries are kept out of version control; config.yaml is tracked.
var ignoredEntries = []string{ //nolint:gochecknoglobals // Fixed list
	"*.log",
	ReportsDirName + "/",
}

// GitignoreContent returns the .gitignore written into new project-local
// .carbonwise directories.
func GitignoreContent() string {
	var b strings.Builder
	b.WriteString("# carbonwise generated output (config.yaml stays tracked)\n")
	for _, e := range ignoredEntries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return b.String()
}

// DefaultReportPath is where report writes when --out is not given:
// projectDir/reports/report.md inside a project, report.md in the working
// directory otherwise.
func DefaultReportPath(projectDir string) string {
	if projectDir == "" {
		return DefaultReportName
	}
	return filepath.Join(projectDir, ReportsDirName, DefaultReportName)
}

// EnsureGitignore creates dir/.gitignore unless it exists, creating dir as
// needed. It reports whether a file was written and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".gitignore")
	//nolint:gosec // .gitignore is meant to be world-readable
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}

	_, writeErr := f.WriteString(GitignoreContent())
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return false, fmt.Errorf("writing %s: %w", path, writeErr)
	}
	return true, nil
}

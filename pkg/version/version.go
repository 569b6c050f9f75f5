// Package version holds the carbonwise build version.
package version

// Set at build time with
//
//	-ldflags "-X github.com/rshade/carbonwise/pkg/version.version=v1.2.3 -X github.com/rshade/carbonwise/pkg/version.gitCommit=abc123"
var (
	version   = "dev" //nolint:gochecknoglobals // Overridden by -ldflags
	gitCommit = ""    //nolint:gochecknoglobals // Overridden by -ldflags
	buildDate = ""    //nolint:gochecknoglobals // Overridden by -ldflags
)

// GetVersion returns the build version, e.g. "v1.2.3" or "dev".
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// String returns the version with commit and build date when they are set.
func String() string {
	s := version
	if gitCommit != "" {
		s += " (" + gitCommit
		if buildDate != "" {
			s += ", " + buildDate
		}
		s += ")"
	}
	return s
}

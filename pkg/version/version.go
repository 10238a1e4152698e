// Package version exposes build metadata injected with -ldflags.
package version

import "fmt"

// Build-time variables injected via -ldflags.
// Defaults apply to local and test builds.
var (
	Version = "v0.1.0"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns a formatted full version string.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// Package version provides version information for the speeed binary.
// This package is in the 'pkg' directory because other tools may want to read
// the build metadata, unlike the 'internal' packages which are private.
package version

import "fmt"

// These variables are set at build time using ldflags
var (
	// Version is the semantic version of the binary (e.g., "1.0.0")
	// Set via: -ldflags "-X github.com/seraprogrammer/speeed/pkg/version.Version=1.0.0"
	Version = "1.0.0"

	// Commit is the git commit hash the binary was built from
	Commit = "unknown"

	// BuildTime is when the binary was built (RFC3339 format)
	BuildTime = "unknown"
)

// String returns a human-readable version string
// Example output: "speeed version 1.0.0 (commit: abc123, built: 2025-11-26T10:30:00Z)"
func String() string {
	return fmt.Sprintf("speeed version %s (commit: %s, built: %s)",
		Version, Commit, BuildTime)
}

// Short returns a short version string with just the version number
func Short() string {
	return Version
}

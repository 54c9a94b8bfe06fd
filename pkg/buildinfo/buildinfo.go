// Package buildinfo provides build metadata injected via ldflags at compile time.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ResolvedVersion returns Version, or the module version recorded by
// `go install` when no version was injected.
func ResolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// String returns a formatted build info string.
func String() string {
	return fmt.Sprintf("nessus-flatten %s (commit: %s, built: %s)",
		ResolvedVersion(), GitCommit, BuildDate)
}

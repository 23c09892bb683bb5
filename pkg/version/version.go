// Package version holds build metadata stamped in via -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata. Release builds override these with
// -ldflags "-X github.com/Sumatoshi-tech/splice/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the metadata the way the version command prints it.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", resolvedVersion(), Commit, Date)
}

// resolvedVersion falls back to the module version recorded by the go
// tool when the binary was installed with go install.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return Version
	}

	return info.Main.Version
}

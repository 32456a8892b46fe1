package app

import (
	"fmt"
	"runtime"
)

// Build information populated via -ldflags at build time by CI.
// Defaults are meaningful for local development and tests.
var (
	// BuildVersion is the semantic version of the built binary.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit = "unknown"
	// BuildDate is the ISO-8601 timestamp of the build.
	BuildDate = "unknown"
)

// BuildInfo is reported by `gobrief version` and the health endpoint.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

func CurrentBuild() BuildInfo {
	return BuildInfo{Version: BuildVersion, Commit: BuildCommit, Date: BuildDate, Go: runtime.Version()}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("gobrief %s (commit %s, built %s, %s)", b.Version, b.Commit, b.Date, b.Go)
}

// Package version holds the release version of the library and CLI.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version and Commit can be overridden at build time:
//
//	go build -ldflags="-X github.com/datacanvas/datacanvas-go/internal/version.Version=v1.2.3 \
//	                   -X github.com/datacanvas/datacanvas-go/internal/version.Commit=abc123"
var (
	// Version is the semantic version, sent in the User-Agent header.
	Version = "0.1.0"
	// Commit is the git commit hash.
	Commit = ""
)

func init() {
	if Commit == "" {
		Commit = commitFromBuildInfo()
	}
}

// commitFromBuildInfo returns the short VCS revision embedded by the Go
// toolchain, or "unknown".
func commitFromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}

// Full returns the version string including commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

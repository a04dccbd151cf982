// Package buildinfo carries the version stamped into the y0 binary.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/Aryan-Seth/y0/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Aryan-Seth/y0/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/Aryan-Seth/y0/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/y0
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String returns the build information as three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, resolvedDate())
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, resolvedDate())
}

// Map returns the build information keyed for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    resolvedDate(),
	}
}

// resolvedDate falls back to the VCS time recorded by the go tool when no
// date was stamped.
func resolvedDate() string {
	if Date != "unknown" {
		return Date
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.time" {
				return s.Value
			}
		}
	}
	return Date
}

// SPDX-License-Identifier: MIT
//
// Package build carries application identity and build metadata. Time,
// commit, and version are injected at compile time via -ldflags:
//
//	go build -ldflags "-X audioviz/pkg/build.buildVersion=0.1.0"
//
// Development builds without ldflags fall back to the defaults below.
package build

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

var (
	buildTime    string
	buildCommit  string
	buildVersion string

	buildFlags = &ldFlags{
		Name:        "audioviz",
		Description: "Real-time audio analysis engine for visualization frontends",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
)

// Initialize copies any ldflags-provided metadata over the development
// defaults. Call once early in startup, before the CLI reads build info.
func Initialize() {
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

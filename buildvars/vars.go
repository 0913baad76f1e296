// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Version, GitCommit and BuildDate are set at link time, e.g.
// `-ldflags -X github.com/toeirei/rootreset/buildvars.Version=...`.
// They are empty for local or development builds.
var (
	Version   string
	GitCommit string
	BuildDate string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// Composite renders the injected version, commit and build date as a single
// line.
func Composite() string {
	return Format(VersionOrDefault("dev"), GitCommit, BuildDate)
}

// Format joins version, commit and date, omitting empty parts and a "dev"
// commit.
func Format(version, commit, date string) string {
	v := version
	if commit != "" && commit != "dev" {
		v = v + " (" + commit + ")"
	}
	if date != "" {
		v = v + " built: " + date
	}
	return v
}

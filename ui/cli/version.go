// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"runtime/debug"

	"github.com/toeirei/rootreset/buildvars"
)

const modulePath = "github.com/toeirei/rootreset"

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. Link-time values win; otherwise the module
// build info is used. If info is nil it is read from the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := buildvars.GitCommit
	resolvedDate := buildvars.BuildDate

	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// installed as a dependency of another module
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if resolvedCommit == "" && s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if resolvedDate == "" && s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && resolvedCommit != "" && resolvedCommit != "dev" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

func compositeVersion() string {
	return buildvars.Format(resolveBuildVersion(nil))
}

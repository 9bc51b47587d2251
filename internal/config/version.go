package config

import (
	"fmt"
)

// ServiceName identifies this service in logs, MCP handshakes and the version endpoint.
const ServiceName = "fund-recommender"

// Version information (set via -ldflags during build).
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp.
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash.
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns version with build info.
func GetFullVersion() string {
	return fmt.Sprintf("%s %s (build: %s, commit: %s)", ServiceName, Version, Build, GitCommit)
}

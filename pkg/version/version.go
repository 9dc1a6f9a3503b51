// Package version exposes build-time identification for the clustersimd
// binary.
package version

import "runtime"

// Populated at build time via
// -ldflags "-X github.com/clustersim/controller/pkg/version.Version=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = runtime.Version()
)

// Info bundles the build identification fields, e.g. for a status endpoint
// or startup log line.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildTime": BuildTime,
		"gitCommit": GitCommit,
		"goVersion": GoVersion,
	}
}

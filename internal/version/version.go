package version

import "runtime"

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func GoVersion() string { return runtime.Version() }

package version

import (
	"runtime"
)

// These variables are intended to be set at build time via -ldflags.
var (
	// Version is the semantic version of the SDK, e.g. v0.1.0. Defaults to "dev".
	Version = "dev"
	// Commit is the short git commit hash. Defaults to ""
	Commit = ""
	// Go is the Go toolchain version used for the build.
	Go = runtime.Version()
)

// UserAgent is the User-Agent header sent with every API call.
func UserAgent() string {
	return "Dataprovider.com - SDK (Go) " + Version
}

// Info returns build metadata suitable for logging.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"go":      Go,
	}
}

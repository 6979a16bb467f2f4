// Package version holds the build version string.
package version

// Version is set at build time via -ldflags.
var Version = "0.3.0-dev"

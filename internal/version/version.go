// Package version holds the build version string.
package version

// Version is the current codescope version. Overridden at build time via
// -ldflags "-X codescope/internal/version.Version=...".
var Version = "0.4.0"

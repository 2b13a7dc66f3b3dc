// Package version provides the ComplexityGuard tool version.
package version

// Version is the ComplexityGuard tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/ingo-eichhorst/complexityguard/pkg/version.Version=2.0.1"
var Version = "dev"

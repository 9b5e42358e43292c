// Package version exposes build metadata for formula-updater.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
package version

// Package config loads per-project formula settings.
//
// A project is described by configurations/<name>.yaml (or .yml, or .toml)
// under the repository root. The document names the GitHub repository to
// watch, the template to render, the formula file to write and the release
// asset filename patterns to look up.
package config

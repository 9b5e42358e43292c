package updater

import (
	"io"
	"time"

	"github.com/oshokin/formula-updater/internal/api/github"
)

// Options are inputs accepted by the updater entry point.
type Options struct {
	// Name selects configurations/<Name>.yaml.
	Name string
	// RootDir is the repository root; project paths are relative to it.
	RootDir string
	// APIBaseURL overrides the GitHub API endpoint.
	APIBaseURL string
	// Token authenticates release API requests when set.
	Token string
	// Timeout bounds the release API request.
	Timeout time.Duration
	// DryRun prints the rendered formula to Stdout instead of writing it.
	DryRun bool
	// Stdout receives the formula in dry-run mode.
	Stdout io.Writer
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.RootDir == "" {
		o.RootDir = "."
	}

	if o.APIBaseURL == "" {
		o.APIBaseURL = github.DefaultBaseURL
	}

	if o.Timeout <= 0 {
		o.Timeout = github.DefaultTimeout
	}

	return o
}

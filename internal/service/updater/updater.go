package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/formula-updater/internal/api/github"
	"github.com/oshokin/formula-updater/internal/config"
	"github.com/oshokin/formula-updater/internal/domain/formula"
	"github.com/oshokin/formula-updater/internal/logger"
	"github.com/oshokin/formula-updater/internal/render"
	repository "github.com/oshokin/formula-updater/internal/repository/formula"
)

// digestPreviewLength is how much of a hash is shown in logs.
const digestPreviewLength = 16

var (
	// ErrTemplateNotFound is returned when the configured template is missing.
	ErrTemplateNotFound = errors.New("template not found")

	// errNameRequired is returned when no project name is given.
	errNameRequired = errors.New("project name must be provided")
	// errStdoutRequired is returned for a dry run without an output stream.
	errStdoutRequired = errors.New("dry run needs an output stream")
)

// releaseFetcher fetches the latest release of a repository.
type releaseFetcher interface {
	LatestRelease(ctx context.Context, repoID string) (*github.Release, error)
}

// projectLoader loads a project configuration by name.
type projectLoader func(ctx context.Context, root, name string) (*config.Project, string, error)

// runner holds the collaborators and inputs of a single update.
// It is unexported; call Run(ctx, Options) from callers.
type runner struct {
	opts     Options
	load     projectLoader
	releases releaseFetcher
	renderer render.Renderer
	repo     repository.Repository
}

// Result summarizes a finished run.
type Result struct {
	// Version is the release version rendered into the formula.
	Version string
	// OutputPath is where the formula was written (empty for dry runs).
	OutputPath string
	// Changed reports whether the formula differs from the previous file.
	Changed bool
}

// Run executes the update workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "formula-updater")

	if opts == nil || opts.Name == "" {
		return errNameRequired
	}

	ctx = logger.WithKV(ctx, "project", opts.Name)

	result, err := newRunner(opts).Run(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Formula update failed", "error", err)
		return err
	}

	if opts.DryRun {
		logger.InfoKV(ctx, "Dry run completed", "version", result.Version)
		return nil
	}

	logger.InfoKV(ctx, "Formula updated",
		"version", result.Version,
		"path", result.OutputPath,
		"changed", result.Changed)

	return nil
}

// newRunner wires the production collaborators.
func newRunner(opts *Options) *runner {
	o := opts.withDefaults()

	return &runner{
		opts: o,
		load: config.Load,
		releases: github.New(
			github.WithBaseURL(o.APIBaseURL),
			github.WithToken(o.Token),
			github.WithTimeout(o.Timeout),
		),
		renderer: render.NewTemplateRenderer(),
		repo:     repository.NewFileRepository(),
	}
}

// Run performs every stage in order and stops at the first failure:
// 1) Load the project configuration.
// 2) Check the template exists.
// 3) Fetch the latest release.
// 4) Resolve assets and digests into template variables.
// 5) Render the template.
// 6) Write the formula.
func (r *runner) Run(ctx context.Context) (*Result, error) {
	project, _, err := r.load(ctx, r.opts.RootDir, r.opts.Name)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	templatePath := r.resolvePath(project.TemplatePath)
	if err = checkTemplate(templatePath); err != nil {
		return nil, err
	}

	release, err := r.releases.LatestRelease(ctx, project.RemoteRepoID)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}

	version := formula.ExtractVersion(release.TagName)

	logger.InfoKV(ctx, "Latest release",
		"tag", release.TagName,
		"version", version,
		"assets", len(release.Assets))

	if !formula.IsSemantic(version) {
		logger.WarnKV(ctx, "Release version is not a semantic version", "version", version)
	}

	vars, err := r.buildVariables(ctx, project, release)
	if err != nil {
		return nil, err
	}

	rendered, err := r.render(ctx, templatePath, vars)
	if err != nil {
		return nil, err
	}

	result := &Result{Version: version}

	if r.opts.DryRun {
		if err = r.print(rendered); err != nil {
			return nil, err
		}

		return result, nil
	}

	result.OutputPath = r.resolvePath(project.OutputPath)

	result.Changed, err = r.save(ctx, result.OutputPath, rendered)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// buildVariables resolves assets and logs what was matched.
func (r *runner) buildVariables(
	ctx context.Context,
	project *config.Project,
	release *github.Release,
) (formula.Variables, error) {
	version := formula.ExtractVersion(release.TagName)

	for _, key := range project.PatternKeys() {
		pattern := project.AssetPatterns[key]

		resolved := formula.ResolvePattern(pattern, project.ShortName(), version)
		if resolved != pattern {
			logger.InfoKV(ctx, "Resolved pattern", "key", key, "pattern", pattern, "resolved", resolved)
		}
	}

	vars, assets, err := formula.BuildVariables(&formula.Input{
		RepoID:    project.RemoteRepoID,
		ShortName: project.ShortName(),
		Patterns:  project.AssetPatterns,
		Release:   release,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve assets for %s %s: %w", project.RemoteRepoID, release.TagName, err)
	}

	for _, asset := range assets {
		preview := asset.SHA256
		if len(preview) > digestPreviewLength {
			preview = preview[:digestPreviewLength]
		}

		logger.InfoKV(ctx, "Found asset", "key", asset.Key, "name", asset.FileName, "sha256", preview+"...")
	}

	return vars, nil
}

// render reads the template and expands it.
func (r *runner) render(ctx context.Context, templatePath string, vars formula.Variables) ([]byte, error) {
	logger.InfoKV(ctx, "Rendering template", "path", templatePath)

	text, err := os.ReadFile(filepath.Clean(templatePath))
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", templatePath, err)
	}

	rendered, err := r.renderer.Render(filepath.Base(templatePath), string(text), vars)
	if err != nil {
		return nil, err
	}

	return []byte(rendered), nil
}

// save writes the formula and reports whether its content changed.
func (r *runner) save(ctx context.Context, path string, rendered []byte) (bool, error) {
	previous, err := r.repo.Load(ctx, path)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	changed := err != nil || !bytes.Equal(previous, rendered)
	if !changed {
		logger.InfoKV(ctx, "Formula already up to date", "path", path)
	}

	if err = r.repo.Save(ctx, path, rendered); err != nil {
		return false, err
	}

	return changed, nil
}

// print writes the rendered formula to the configured stream.
func (r *runner) print(rendered []byte) error {
	if r.opts.Stdout == nil {
		return errStdoutRequired
	}

	if _, err := r.opts.Stdout.Write(rendered); err != nil {
		return fmt.Errorf("print formula: %w", err)
	}

	return nil
}

// resolvePath makes project-relative paths absolute against the root directory.
func (r *runner) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(r.opts.RootDir, path)
}

// checkTemplate fails with ErrTemplateNotFound unless path is a regular file.
func checkTemplate(path string) error {
	info, err := os.Stat(path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w at %s", ErrTemplateNotFound, path)
	case err != nil:
		return fmt.Errorf("stat template %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%w at %s: path is a directory", ErrTemplateNotFound, path)
	}

	return nil
}

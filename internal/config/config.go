package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/formula-updater/internal/logger"
)

// Project holds the settings of a single formula.
type Project struct {
	// RemoteRepoID is the GitHub repository in "owner/name" form.
	RemoteRepoID string `yaml:"remote_repo_id" toml:"remote_repo_id"`
	// TemplatePath is the formula template, relative to the repository root.
	TemplatePath string `yaml:"template_path" toml:"template_path"`
	// OutputPath is the rendered formula, relative to the repository root.
	OutputPath string `yaml:"output_path" toml:"output_path"`
	// AssetPatterns maps a logical key to a release asset filename pattern.
	// Patterns may contain the {NAME} and {VERSION} placeholders.
	AssetPatterns map[string]string `yaml:"asset_patterns" toml:"asset_patterns"`
}

// document mirrors the on-disk layout before validation.
// AssetPatterns stays untyped so that a non-mapping value is reported as
// invalid configuration rather than a parse error.
type document struct {
	RemoteRepoID  string `yaml:"remote_repo_id" toml:"remote_repo_id"`
	GitHubRepo    string `yaml:"github_repo" toml:"github_repo"`
	TemplatePath  string `yaml:"template_path" toml:"template_path"`
	OutputPath    string `yaml:"output_path" toml:"output_path"`
	AssetPatterns any    `yaml:"asset_patterns" toml:"asset_patterns"`
}

const (
	// DefaultConfigDir is the directory under the repository root holding project files.
	DefaultConfigDir = "configurations"

	// DefaultExtension is the extension reported when no project file is found.
	DefaultExtension = ".yaml"
)

var (
	// ErrConfigNotFound is returned when no project file exists for the name.
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrConfigParse is returned when the project file is not valid YAML or TOML.
	ErrConfigParse = errors.New("configuration parse error")
	// ErrConfigInvalid is returned when required settings are missing or malformed.
	ErrConfigInvalid = errors.New("invalid configuration")

	// supportedExtensions are tried in order.
	//nolint:gochecknoglobals // Read-only lookup table.
	supportedExtensions = []string{".yaml", ".yml", ".toml"}
)

// Path returns the default location of the project file for name.
func Path(root, name string) string {
	return filepath.Join(root, DefaultConfigDir, name+DefaultExtension)
}

// Find returns the first existing project file for name under root.
func Find(root, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: project name %q must be a plain file name", ErrConfigInvalid, name)
	}

	for _, ext := range supportedExtensions {
		candidate := filepath.Join(root, DefaultConfigDir, name+ext)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}

	return "", fmt.Errorf("%w: expected %s", ErrConfigNotFound, Path(root, name))
}

// Load finds, parses and validates the project file for name.
// It returns the project and the path it was read from.
func Load(ctx context.Context, root, name string) (*Project, string, error) {
	path, err := Find(root, name)
	if err != nil {
		return nil, "", err
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	project, err := Parse(contents, filepath.Ext(path))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	logger.InfoKV(ctx, "Loaded configuration", "path", path)

	return project, path, nil
}

// Parse decodes a project document. ext selects the format: ".toml" for TOML,
// anything else for YAML.
func Parse(contents []byte, ext string) (*Project, error) {
	var doc document

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(contents), &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
		}
	default:
		if err := yaml.Unmarshal(contents, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
		}
	}

	return doc.validate()
}

// validate checks required keys and converts the document into a Project.
func (d *document) validate() (*Project, error) {
	repoID := strings.TrimSpace(d.RemoteRepoID)
	if repoID == "" {
		repoID = strings.TrimSpace(d.GitHubRepo)
	}

	var missing []string

	if repoID == "" {
		missing = append(missing, "remote_repo_id")
	}

	if strings.TrimSpace(d.TemplatePath) == "" {
		missing = append(missing, "template_path")
	}

	if strings.TrimSpace(d.OutputPath) == "" {
		missing = append(missing, "output_path")
	}

	if d.AssetPatterns == nil {
		missing = append(missing, "asset_patterns")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required keys: %s", ErrConfigInvalid, strings.Join(missing, ", "))
	}

	if err := validateRepoID(repoID); err != nil {
		return nil, err
	}

	patterns, err := toPatterns(d.AssetPatterns)
	if err != nil {
		return nil, err
	}

	return &Project{
		RemoteRepoID:  repoID,
		TemplatePath:  d.TemplatePath,
		OutputPath:    d.OutputPath,
		AssetPatterns: patterns,
	}, nil
}

// validateRepoID requires exactly "owner/name" with both parts present.
func validateRepoID(repoID string) error {
	owner, name, found := strings.Cut(repoID, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: remote_repo_id %q must have the form owner/name", ErrConfigInvalid, repoID)
	}

	return nil
}

func toPatterns(value any) (map[string]string, error) {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w: asset_patterns must be a non-empty mapping", ErrConfigInvalid)
	}

	patterns := make(map[string]string, len(raw))

	for key, v := range raw {
		pattern, isString := v.(string)
		if !isString || strings.TrimSpace(pattern) == "" {
			return nil, fmt.Errorf("%w: asset_patterns.%s must be a non-empty string", ErrConfigInvalid, key)
		}

		patterns[key] = pattern
	}

	return patterns, nil
}

// ShortName returns the project name, i.e. the last segment of RemoteRepoID.
func (p *Project) ShortName() string {
	return p.RemoteRepoID[strings.LastIndex(p.RemoteRepoID, "/")+1:]
}

// Owner returns the repository owner part of RemoteRepoID.
func (p *Project) Owner() string {
	owner, _, _ := strings.Cut(p.RemoteRepoID, "/")

	return owner
}

// PatternKeys returns the asset pattern keys in sorted order.
func (p *Project) PatternKeys() []string {
	keys := make([]string, 0, len(p.AssetPatterns))
	for key := range p.AssetPatterns {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

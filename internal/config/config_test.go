package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validYAML = `remote_repo_id: pirafrank/poof
template_path: templates/poof.rb.tmpl
output_path: Formula/poof.rb
asset_patterns:
  macos_intel: "{NAME}-{VERSION}-x86_64-apple-darwin.tar.gz"
  linux_arm: "{NAME}-{VERSION}-aarch64-unknown-linux-gnu.tar.gz"
`

// writeProject stores a project file under root/configurations.
func writeProject(t *testing.T, root, fileName, contents string) {
	t.Helper()

	dir := filepath.Join(root, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(contents), 0o600))
}

// TestLoadYAML loads a complete YAML project file.
func TestLoadYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "poof.yaml", validYAML)

	project, path, err := Load(context.Background(), root, "poof")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "configurations", "poof.yaml"), path)
	require.Equal(t, "pirafrank/poof", project.RemoteRepoID)
	require.Equal(t, "templates/poof.rb.tmpl", project.TemplatePath)
	require.Equal(t, "Formula/poof.rb", project.OutputPath)
	require.Equal(t, "{NAME}-{VERSION}-x86_64-apple-darwin.tar.gz", project.AssetPatterns["macos_intel"])
	require.Equal(t, "poof", project.ShortName())
	require.Equal(t, "pirafrank", project.Owner())
	require.Equal(t, []string{"linux_arm", "macos_intel"}, project.PatternKeys())
}

// TestLoadTOML loads the same settings from a TOML project file.
func TestLoadTOML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "vault-conductor.toml", `remote_repo_id = "pirafrank/vault-conductor"
template_path = "templates/vault-conductor.rb.tmpl"
output_path = "Formula/vault-conductor.rb"

[asset_patterns]
linux_intel = "{NAME}-{VERSION}-x86_64-unknown-linux-gnu.tar.gz"
`)

	project, path, err := Load(context.Background(), root, "vault-conductor")
	require.NoError(t, err)
	require.Equal(t, ".toml", filepath.Ext(path))
	require.Equal(t, "vault-conductor", project.ShortName())
	require.Len(t, project.AssetPatterns, 1)
}

// TestLoadPrefersYAML checks the lookup order when several files exist.
func TestLoadPrefersYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "poof.toml", "not = [valid")
	writeProject(t, root, "poof.yaml", validYAML)

	_, path, err := Load(context.Background(), root, "poof")
	require.NoError(t, err)
	require.Equal(t, ".yaml", filepath.Ext(path))
}

// TestLoadNotFound reports the expected path when no file exists.
func TestLoadNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, _, err := Load(context.Background(), root, "missing")
	require.ErrorIs(t, err, ErrConfigNotFound)
	require.Contains(t, err.Error(), filepath.Join("configurations", "missing.yaml"))
}

// TestLoadRejectsPathNames refuses names that would escape the configurations directory.
func TestLoadRejectsPathNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "..", "../poof", "a/b"} {
		_, _, err := Load(context.Background(), t.TempDir(), name)
		require.ErrorIs(t, err, ErrConfigInvalid, name)
	}
}

// TestLoadParseError surfaces malformed YAML as a parse error naming the file.
func TestLoadParseError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "broken.yaml", "remote_repo_id: [unterminated\n")

	_, _, err := Load(context.Background(), root, "broken")
	require.ErrorIs(t, err, ErrConfigParse)
	require.Contains(t, err.Error(), "broken.yaml")
}

// TestParseMissingKeys ensures every required key is enforced.
func TestParseMissingKeys(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"remote_repo_id": "template_path: t\noutput_path: o\nasset_patterns:\n  bin: x\n",
		"template_path":  "remote_repo_id: a/b\noutput_path: o\nasset_patterns:\n  bin: x\n",
		"output_path":    "remote_repo_id: a/b\ntemplate_path: t\nasset_patterns:\n  bin: x\n",
		"asset_patterns": "remote_repo_id: a/b\ntemplate_path: t\noutput_path: o\n",
	}

	for key, doc := range cases {
		_, err := Parse([]byte(doc), ".yaml")
		require.ErrorIs(t, err, ErrConfigInvalid, key)
		require.Contains(t, err.Error(), key)
	}

	_, err := Parse(nil, ".yaml")
	require.ErrorIs(t, err, ErrConfigInvalid)
	require.Contains(t, err.Error(), "remote_repo_id, template_path, output_path, asset_patterns")
}

// TestParseAssetPatternsShape rejects empty, non-mapping and non-string patterns.
func TestParseAssetPatternsShape(t *testing.T) {
	t.Parallel()

	base := "remote_repo_id: a/b\ntemplate_path: t\noutput_path: o\n"

	for _, patterns := range []string{
		"asset_patterns: {}\n",
		"asset_patterns: [a, b]\n",
		"asset_patterns: just-a-string\n",
		"asset_patterns:\n  bin: [x]\n",
		"asset_patterns:\n  bin: \"\"\n",
	} {
		_, err := Parse([]byte(base+patterns), ".yaml")
		require.ErrorIs(t, err, ErrConfigInvalid, patterns)
	}
}

// TestParseRepoID validates the owner/name shape and the github_repo alias.
func TestParseRepoID(t *testing.T) {
	t.Parallel()

	rest := "template_path: t\noutput_path: o\nasset_patterns:\n  bin: x\n"

	for _, bad := range []string{"poof", "/poof", "org/", "a/b/c"} {
		_, err := Parse([]byte("remote_repo_id: "+bad+"\n"+rest), ".yaml")
		require.ErrorIs(t, err, ErrConfigInvalid, bad)
	}

	project, err := Parse([]byte("github_repo: pirafrank/rust_exif_renamer\n"+rest), ".yml")
	require.NoError(t, err)
	require.Equal(t, "pirafrank/rust_exif_renamer", project.RemoteRepoID)
	require.Equal(t, "rust_exif_renamer", project.ShortName())
}

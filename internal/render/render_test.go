package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const formulaTemplate = `class Proj < Formula
  version "{{ .version }}"
  url "{{ .bin_url }}"
  sha256 "{{ bin_sha256 }}"

  def install
    bin.install "#{bin}/{{ name }}"
  end
end
`

// TestRender expands both the dotted and the bare variable forms.
func TestRender(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"version":    "2.0.0",
		"name":       "proj",
		"bin_url":    "https://example.com/proj-2.0.0.zip",
		"bin_sha256": "deadbeef",
	}

	out, err := NewTemplateRenderer().Render("proj.rb", formulaTemplate, vars)
	require.NoError(t, err)
	require.Contains(t, out, `version "2.0.0"`)
	require.Contains(t, out, `url "https://example.com/proj-2.0.0.zip"`)
	require.Contains(t, out, `sha256 "deadbeef"`)
	require.Contains(t, out, `"#{bin}/proj"`)
	require.NotContains(t, out, "{{")

	again, err := NewTemplateRenderer().Render("proj.rb", formulaTemplate, vars)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

// TestRenderUnknownVariable fails for missing keys in both forms.
func TestRenderUnknownVariable(t *testing.T) {
	t.Parallel()

	r := NewTemplateRenderer()
	vars := map[string]string{"version": "1.0.0"}

	_, err := r.Render("dotted", `{{ .linux_url }}`, vars)
	require.ErrorIs(t, err, ErrRender)
	require.Contains(t, err.Error(), "linux_url")

	_, err = r.Render("bare", `{{ linux_url }}`, vars)
	require.ErrorIs(t, err, ErrRender)
	require.Contains(t, err.Error(), "linux_url")
}

// TestRenderSyntaxError reports malformed templates.
func TestRenderSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := NewTemplateRenderer().Render("broken", `{{ .version `, map[string]string{"version": "1"})
	require.ErrorIs(t, err, ErrRender)
	require.Contains(t, err.Error(), "broken")
}

// TestRenderNonIdentifierKeys keeps dashed keys reachable through index.
func TestRenderNonIdentifierKeys(t *testing.T) {
	t.Parallel()

	out, err := NewTemplateRenderer().Render("dashed", `{{ index . "linux-arm_url" }}`, map[string]string{
		"linux-arm_url": "https://example.com/arm",
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/arm", out)
}

// TestTemplateRendererIsRenderer pins the interface.
func TestTemplateRendererIsRenderer(t *testing.T) {
	t.Parallel()

	var r Renderer = NewTemplateRenderer()
	require.NotNil(t, r)
}

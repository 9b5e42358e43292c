package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// ErrRender wraps template syntax errors and unresolved variables.
var ErrRender = errors.New("render template")

// identifier matches names text/template accepts as function names.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Renderer turns template text and variables into the final document.
type Renderer interface {
	Render(name, text string, vars map[string]string) (string, error)
}

// TemplateRenderer renders with text/template.
//
// Variables are reachable as {{ .version }} and, for identifier-shaped keys,
// as bare {{ version }}. Referencing an unknown variable is an error.
type TemplateRenderer struct{}

// NewTemplateRenderer returns a ready-to-use renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return new(TemplateRenderer)
}

// Render parses text and executes it against vars.
func (*TemplateRenderer) Render(name, text string, vars map[string]string) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(variableFuncs(vars)).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRender, name, err)
	}

	var out strings.Builder
	if err = tmpl.Execute(&out, vars); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRender, name, err)
	}

	return out.String(), nil
}

// variableFuncs exposes each identifier-shaped variable as a niladic function.
func variableFuncs(vars map[string]string) template.FuncMap {
	funcs := make(template.FuncMap, len(vars))

	for key, value := range vars {
		value := value
		if !identifier.MatchString(key) {
			continue
		}

		funcs[key] = func() string { return value }
	}

	return funcs
}

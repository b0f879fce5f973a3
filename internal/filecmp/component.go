package filecmp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/tmplcmp"
	"gopkg.in/yaml.v3"
)

// Source is a template file with its optional stylesheet.
type Source struct {
	Kind     string
	Path     string
	CSSPath  string
	Template *Template
	CSS      string
}

// Load reads a template file. A sibling file with the same base name and a
// .css extension is loaded as the component's stylesheet. The kind is the
// file's base name without extension.
func Load(path string) (*Source, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filecmp: reading template: %w", err)
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	src := &Source{
		Kind:     filepath.Base(base),
		Path:     path,
		Template: Parse(string(text)),
	}

	cssPath := base + ".css"
	css, err := os.ReadFile(cssPath)
	switch {
	case err == nil:
		src.CSSPath = cssPath
		src.CSS = string(css)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("filecmp: reading stylesheet: %w", err)
	}
	return src, nil
}

// Paths returns the files the source was read from.
func (s *Source) Paths() []string {
	if s.CSSPath == "" {
		return []string{s.Path}
	}
	return []string{s.Path, s.CSSPath}
}

// LoadData reads a YAML mapping of template values. An empty path yields an
// empty map.
func LoadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filecmp: reading data: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("filecmp: parsing data %s: %w", path, err)
	}
	return data, nil
}

// Component is a tmplcmp component whose template comes from a Source and
// whose state is the data map.
type Component struct {
	*tmplcmp.Component[map[string]any]
	src *Source
}

// New creates a component for src and binds it. With tmplcmp.WithParent it
// is also attached.
func New(src *Source, data map[string]any, opts ...tmplcmp.Option) (*Component, error) {
	c := &Component{
		Component: tmplcmp.New(src.Kind, data, opts...),
		src:       src,
	}
	if err := c.Init(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) Template() tmplcmp.Markup {
	return c.src.Template.Execute(c.State())
}

func (c *Component) CSS() string {
	return c.src.CSS
}

// Source returns the current source.
func (c *Component) Source() *Source {
	return c.src
}

// Reload swaps in a re-read source. Call Render to apply it. The stylesheet
// already injected for the kind is not replaced.
func (c *Component) Reload(src *Source) {
	c.src = src
}

package templatex

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PartialsDir holds templates shared by every page template.
const PartialsDir = "partials"

// ErrTemplateNotFound is returned when a page asks for a template the theme lacks.
var ErrTemplateNotFound = errors.New("template not found")

// Engine holds one template set per page template of a theme. Partials are
// parsed into every set so page templates cannot clash on block names.
type Engine struct {
	sets map[string]*template.Template
}

// Load parses every *.html file below themeDir. Page templates are addressed
// by their slash-separated path relative to themeDir, e.g. "base.html".
func Load(themeDir string) (*Engine, error) {
	if themeDir == "" {
		return nil, fmt.Errorf("theme directory not configured")
	}

	var pages, partials []string
	err := filepath.WalkDir(themeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsTemplate(path) {
			return nil
		}
		rel, err := filepath.Rel(themeDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, PartialsDir+"/") {
			partials = append(partials, rel)
		} else {
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no templates found in %s", themeDir)
	}

	sort.Strings(pages)
	sort.Strings(partials)

	base := template.New("root").Funcs(funcMap())
	for _, name := range partials {
		if err := parseInto(base, themeDir, name); err != nil {
			return nil, err
		}
	}

	engine := &Engine{sets: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone partials: %w", err)
		}
		if err := parseInto(set, themeDir, name); err != nil {
			return nil, err
		}
		engine.sets[name] = set
	}
	return engine, nil
}

// IsTemplate reports whether a theme file is a template rather than an asset.
func IsTemplate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".html")
}

// Has reports whether the theme provides the named page template.
func (e *Engine) Has(name string) bool {
	_, ok := e.sets[name]
	return ok
}

// Render executes the named page template with ctx.
func (e *Engine) Render(w io.Writer, name string, ctx *PageContext) error {
	set, ok := e.sets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return set.ExecuteTemplate(w, name, ctx)
}

func parseInto(set *template.Template, themeDir, name string) error {
	content, err := os.ReadFile(filepath.Join(themeDir, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("read template %s: %w", name, err)
	}
	if _, err := set.New(name).Parse(string(content)); err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(v any) template.HTML {
			switch value := v.(type) {
			case template.HTML:
				return value
			case string:
				return template.HTML(value)
			default:
				return ""
			}
		},
		// first returns the leading value of a front matter entry.
		"first": func(values []string) string {
			if len(values) == 0 {
				return ""
			}
			return values[0]
		},
	}
}

package templatex

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestLoad_PageTemplatesAreIsolated(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"base.html":          `{{define "body"}}base{{end}}[{{template "partials/nav.html" .}}|{{template "body" .}}]`,
		"landing.html":       `{{define "body"}}landing{{end}}<{{template "body" .}}>`,
		"partials/nav.html":  `{{range .Nav}}{{if $.NavActive.Contains .}}*{{end}}{{.Title}};{{end}}`,
		"css/site.css":       `body {}`,
		"sub/nested.html":    `nested {{.PageTitle}}`,
		"partials/README.md": `ignored`,
	})

	engine, err := Load(dir)
	require.NoError(t, err)
	require.True(t, engine.Has("base.html"))
	require.True(t, engine.Has("landing.html"))
	require.True(t, engine.Has("sub/nested.html"))
	require.False(t, engine.Has("partials/nav.html"))

	home := &NavItem{Title: "Home", URL: "/"}
	about := &NavItem{Title: "About", URL: "/about/"}
	ctx := &PageContext{
		PageTitle: "About",
		Nav:       []*NavItem{home, about},
		NavActive: ActiveSet{about: {}},
	}

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "base.html", ctx))
	require.Equal(t, "[Home;*About;|base]", buf.String())

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "landing.html", ctx))
	require.Equal(t, "<landing>", buf.String())

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "sub/nested.html", ctx))
	require.Equal(t, "nested About", buf.String())
}

func TestRender_MissingTemplate(t *testing.T) {
	engine, err := Load(writeTheme(t, map[string]string{"base.html": "x"}))
	require.NoError(t, err)

	err = engine.Render(&bytes.Buffer{}, "missing.html", &PageContext{})
	require.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)

	_, err = Load(writeTheme(t, map[string]string{"style.css": "x"}))
	require.ErrorContains(t, err, "no templates found")

	_, err = Load(writeTheme(t, map[string]string{"base.html": "{{ .Broken "}))
	require.ErrorContains(t, err, "parse template base.html")
}

func TestFuncs(t *testing.T) {
	engine, err := Load(writeTheme(t, map[string]string{
		"base.html": `{{first (index .Meta "description")}}|{{first (index .Meta "missing")}}|{{safeHTML .Content}}`,
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "base.html", &PageContext{
		Meta:    map[string][]string{"description": {"hello", "world"}},
		Content: "<p>x</p>",
	}))
	require.Equal(t, "hello||<p>x</p>", buf.String())
}

func TestActiveSet(t *testing.T) {
	item := &NavItem{Title: "A", URL: "/a/"}
	var empty ActiveSet
	require.False(t, empty.Contains(item))

	set := ActiveSet{}
	set.Add(item)
	require.True(t, set.Contains(item))
	require.False(t, set.Contains(&NavItem{Title: "A", URL: "/a/"}))
	require.True(t, (&NavItem{Title: "Group"}).IsGroup())
}

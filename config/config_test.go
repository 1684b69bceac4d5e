package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_YAMLPairsAndDefaults(t *testing.T) {
	p := writeConfig(t, "mkdocs.yml", `
site_name: " Example "
base_url: http://example.com/
pages:
- ['index.md', 'Home']
- ['guide/install.md', 'Guide / Installation']
- ['about.md']
- {path: './changelog.md', title: Changes}
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	root := filepath.Dir(p)
	require.Equal(t, "Example", cfg.SiteName)
	require.Equal(t, "http://example.com", cfg.BaseURL)
	require.Equal(t, filepath.Join(root, "docs"), cfg.DocsDir)
	require.Equal(t, filepath.Join(root, "site"), cfg.SiteDir)
	require.Equal(t, filepath.Join(root, "theme"), cfg.ThemeDir)
	require.Equal(t, "base.html", cfg.DefaultTemplate)
	require.Equal(t, "prettyprint well", cfg.CodeClass)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.LocalFiles)

	require.Equal(t, []Page{
		{Path: "index.md", Title: "Home"},
		{Path: "guide/install.md", Title: "Guide / Installation"},
		{Path: "about.md", Title: "about"},
		{Path: "changelog.md", Title: "Changes"},
	}, cfg.Pages)
}

func TestLoad_JSON(t *testing.T) {
	p := writeConfig(t, "site.json", `{
		"siteName": "Docs",
		"localFiles": true,
		"docsDir": "/srv/docs",
		"minify": true,
		"markdown": {"highlight": true},
		"pages": [["index.md", "Home"], {"path": "a.md", "title": "A"}, "b-c.md"]
	}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.True(t, cfg.LocalFiles)
	require.True(t, cfg.Minify)
	require.True(t, cfg.Markdown.Highlight)
	require.Equal(t, filepath.Clean("/srv/docs"), cfg.DocsDir)
	require.Equal(t, []Page{
		{Path: "index.md", Title: "Home"},
		{Path: "a.md", Title: "A"},
		{Path: "b-c.md", Title: "b c"},
	}, cfg.Pages)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"no pages":       "site_name: x\n",
		"duplicate path": "pages:\n- ['a.md', 'A']\n- ['a.md', 'B']\n",
		"escaping path":  "pages:\n- ['../a.md', 'A']\n",
		"absolute path":  "pages:\n- ['/a.md', 'A']\n",
		"not markdown":   "pages:\n- ['a.txt', 'A']\n",
		"too many items": "pages:\n- ['a.md', 'A', 'extra']\n",
		"template path":  "default_template: layouts/base.html\npages:\n- ['a.md', 'A']\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "mkdocs.yml", body))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorContains(t, err, "open config")
}

func TestIsMarkdown(t *testing.T) {
	require.True(t, IsMarkdown("a.md"))
	require.True(t, IsMarkdown("dir/B.MARKDOWN"))
	require.False(t, IsMarkdown("style.css"))
	require.False(t, IsMarkdown("md"))
}

package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_FrontMatterMeta(t *testing.T) {
	src := []byte("---\ntemplate: landing.html\nTags:\n  - go\n  - docs\ndraft: true\n---\n# Title\n")

	res, err := New(Options{}).Convert(src)
	require.NoError(t, err)
	require.Equal(t, []string{"landing.html"}, res.Meta["template"])
	require.Equal(t, []string{"go", "docs"}, res.Meta["tags"])
	require.Equal(t, []string{"true"}, res.Meta["draft"])
	require.NotContains(t, string(res.HTML), "landing.html")
}

func TestConvert_InvalidFrontMatter(t *testing.T) {
	_, err := New(Options{}).Convert([]byte("---\nkey: [unclosed\n---\nbody\n"))
	require.ErrorContains(t, err, "front matter")
}

func TestConvert_HeadingIDs(t *testing.T) {
	src := []byte("# Café Menu\n\n## Setup\n\n## Setup\n\n### Custom {#mine}\n")

	res, err := New(Options{}).Convert(src)
	require.NoError(t, err)
	require.Equal(t, []Heading{
		{ID: "cafe-menu", Text: "Café Menu", Level: 1},
		{ID: "setup", Text: "Setup", Level: 2},
		{ID: "setup-1", Text: "Setup", Level: 2},
		{ID: "mine", Text: "Custom", Level: 3},
	}, res.Headings)
	require.Contains(t, string(res.HTML), `<h2 id="setup-1">Setup</h2>`)
}

func TestConvert_HeadingTextMatchesRenderedHeading(t *testing.T) {
	src := []byte("# Don't panic\n\n# A &amp; B\n\n# Use <https://x.org> now\n\n# Run `a\\*b` \\*now\\*\n")

	res, err := New(Options{}).Convert(src)
	require.NoError(t, err)
	require.Equal(t, []Heading{
		{ID: "dont-panic", Text: "Don’t panic", Level: 1},
		{ID: "a-b", Text: "A & B", Level: 1},
		{ID: "use-httpsx-org-now", Text: "Use https://x.org now", Level: 1},
		{ID: "run-ab-now", Text: "Run a\\*b *now*", Level: 1},
	}, res.Headings)
	require.Contains(t, string(res.HTML), `<h1 id="dont-panic">Don&rsquo;t panic</h1>`)
}

func TestConvert_TOCMarkerLayout(t *testing.T) {
	src := []byte("# A\n\n## A1\n\n# B & C\n\n<!-- STARTTOC -->\n\n[TOC]\n")

	res, err := New(Options{}).Convert(src)
	require.NoError(t, err)

	_, fragment, found := strings.Cut(string(res.HTML), "<!-- STARTTOC -->")
	require.True(t, found)
	require.Equal(t, "\n"+
		"<div class=\"toc\">\n"+
		"<ul>\n"+
		"<li><a href=\"#a\">A</a><ul>\n"+
		"<li><a href=\"#a1\">A1</a></li>\n"+
		"</ul>\n"+
		"</li>\n"+
		"<li><a href=\"#b-c\">B &amp; C</a></li>\n"+
		"</ul>\n"+
		"</div>\n", fragment)
}

func TestConvert_TOCWithoutHeadings(t *testing.T) {
	res, err := New(Options{}).Convert([]byte("plain text\n\n[TOC]\n"))
	require.NoError(t, err)
	require.Contains(t, string(res.HTML), "<div class=\"toc\">\n<ul></ul>\n</div>\n")
}

func TestNestHeadings_SkippedLevels(t *testing.T) {
	roots := nestHeadings([]Heading{
		{ID: "a", Level: 2},
		{ID: "b", Level: 4},
		{ID: "c", Level: 3},
		{ID: "d", Level: 1},
	})
	require.Len(t, roots, 2)
	require.Equal(t, "a", roots[0].heading.ID)
	require.Len(t, roots[0].children, 2)
	require.Equal(t, "b", roots[0].children[0].heading.ID)
	require.Equal(t, "c", roots[0].children[1].heading.ID)
	require.Equal(t, "d", roots[1].heading.ID)
}

func TestConvert_PlainCodeBlocks(t *testing.T) {
	res, err := New(Options{}).Convert([]byte("```go\nfmt.Println(1)\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(res.HTML), `<pre><code class="language-go">`)
}

func TestConvert_HighlightedCodeBlocks(t *testing.T) {
	res, err := New(Options{Highlight: true}).Convert([]byte("```go\nfmt.Println(1)\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(res.HTML), `<pre tabindex="0" class="z-chroma z-code language-go" data-lang="go">`)
}

func TestMinifyHTML_KeepsDocumentStructure(t *testing.T) {
	out, err := New(Options{}).MinifyHTML([]byte("<html>\n  <head><title>x</title></head>\n  <body>\n    <p>hello</p>\n  </body>\n</html>\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<html>")
	require.Contains(t, string(out), "<p>hello</p>")
}

func TestSanitize_StripsScripts(t *testing.T) {
	out := New(Options{}).Sanitize(`<p id="x">ok</p><script>alert(1)</script>`)
	require.Equal(t, `<p id="x">ok</p>`, out)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello-world", slugify("  Hello,  World! "))
	require.Equal(t, "section", slugify("!!!"))
	require.Equal(t, "naive", slugify("Naïve"))
}

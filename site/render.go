package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iedon/docsite-go/config"
	"github.com/iedon/docsite-go/fsutil"
	"github.com/iedon/docsite-go/renderer"
	"github.com/iedon/docsite-go/templatex"
)

// tocSentinel separates page content from the table of contents in the
// converter output.
const tocSentinel = "<!-- STARTTOC -->"

const tocDirective = "\n\n" + tocSentinel + "\n\n" + renderer.TOCMarker + "\n"

var (
	hrefPattern = regexp.MustCompile(`<a\s+(?:[^>]*?\s)?href="([^"]*)"`)
	utf8BOM     = []byte("\xef\xbb\xbf")
)

func (s *Service) buildPages(ctx context.Context, outDir string) (int, error) {
	nav := GenerateNav(s.cfg)
	for _, entry := range s.cfg.Pages {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		doc, err := newPage(entry, s.cfg, outDir)
		if err != nil {
			return 0, err
		}
		if err := s.renderPage(doc, nav); err != nil {
			return 0, err
		}
	}
	return len(s.cfg.Pages), nil
}

func (s *Service) renderPage(doc page, nav []*templatex.NavItem) error {
	active, navActive := SetNavActive(doc.Source, s.cfg, nav)

	source, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", doc.Source, errors.Join(ErrSourceRead, err))
	}
	source = bytes.TrimPrefix(source, utf8BOM)
	if !utf8.Valid(source) {
		return fmt.Errorf("read %s: %w: not valid UTF-8", doc.Source, ErrSourceRead)
	}
	source = append(source, tocDirective...)

	rendered, err := s.renderer.Convert(source)
	if err != nil {
		return fmt.Errorf("convert %s: %w", doc.Source, errors.Join(ErrConversion, err))
	}

	content, tocHTML, found := strings.Cut(string(rendered.HTML), tocSentinel)
	if !found {
		return fmt.Errorf("convert %s: %w: contents marker swallowed, check for an unclosed code block", doc.Source, ErrMalformedTOC)
	}
	toc, err := GenerateTOC(tocHTML)
	if err != nil {
		return fmt.Errorf("toc %s: %w", doc.Source, err)
	}

	name := s.cfg.DefaultTemplate
	if values := rendered.Meta["template"]; len(values) > 0 && strings.TrimSpace(values[0]) != "" {
		name = strings.TrimSpace(values[0])
	}
	if !s.templates.Has(name) {
		return fmt.Errorf("template %s: %w: %s", doc.Source, ErrTemplateNotFound, name)
	}

	if s.cfg.Markdown.Sanitize {
		content = s.renderer.Sanitize(content)
	}
	content = rewriteLinks(content, doc.Source, s.cfg)
	content = strings.ReplaceAll(content, "<pre>", `<pre class="`+html.EscapeString(s.cfg.CodeClass)+`">`)

	pageTitle := doc.Title
	if active != nil {
		pageTitle = active.Title
	}

	data := &templatex.PageContext{
		ProjectName: s.cfg.SiteName,
		PageTitle:   pageTitle,
		Content:     template.HTML(content),
		TOC:         toc,
		Nav:         nav,
		NavActive:   navActive,
		Meta:        rendered.Meta,
		Config:      s.cfg,
		URL:         doc.URL,
		BaseURL:     s.cfg.BaseURL,
		HomepageURL: PathToURL("index.md", s.cfg),
		PreviousURL: doc.PreviousURL,
		NextURL:     doc.NextURL,
		Breadcrumbs: buildBreadcrumbs(nav, active),
	}

	var buf bytes.Buffer
	if err := s.templates.Render(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", doc.Source, err)
	}

	out := buf.Bytes()
	if s.cfg.Minify {
		if out, err = s.renderer.MinifyHTML(out); err != nil {
			return fmt.Errorf("minify %s: %w", doc.Source, err)
		}
	}

	if err := fsutil.WriteFile(doc.OutputPath, out); err != nil {
		return fmt.Errorf("write %s: %w", doc.Source, err)
	}
	s.logger.Debug("page rendered", "page", doc.Source, "template", name, "output", doc.OutputPath)
	return nil
}

// rewriteLinks points every link to a markdown document at the URL of the
// page generated from it. Link targets are resolved against the directory of
// the page being rendered; external and non-document links are left alone.
func rewriteLinks(content, pagePath string, cfg *config.Config) string {
	matches := hrefPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var sb strings.Builder
	sb.Grow(len(content))
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		resolved, ok := resolveDocumentLink(html.UnescapeString(content[start:end]), pagePath, cfg)
		if !ok {
			continue
		}
		sb.WriteString(content[last:start])
		sb.WriteString(html.EscapeString(resolved))
		last = end
	}
	sb.WriteString(content[last:])
	return sb.String()
}

func resolveDocumentLink(target, pagePath string, cfg *config.Config) (string, bool) {
	if target == "" || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "//") {
		return "", false
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	if !config.IsMarkdown(u.Path) {
		return "", false
	}

	rel := u.Path
	if strings.HasPrefix(rel, "/") {
		rel = strings.TrimPrefix(rel, "/")
	} else {
		rel = path.Join(path.Dir(pagePath), rel)
	}
	rel = path.Clean(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	resolved := PathToURL(rel, cfg)
	if u.RawQuery != "" {
		resolved += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		resolved += "#" + u.EscapedFragment()
	}
	return resolved, true
}

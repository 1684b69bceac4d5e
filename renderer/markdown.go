package renderer

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	minifyhtml "github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	htmlRenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"
)

// TOCMarker is the paragraph text replaced by the generated table of contents.
const TOCMarker = "[TOC]"

// Heading represents a heading entry for table-of-contents rendering.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// RenderResult wraps HTML markup and extracted metadata.
type RenderResult struct {
	HTML     []byte
	Meta     map[string][]string
	Headings []Heading
}

// Options toggles optional converter features.
type Options struct {
	// Highlight renders fenced code through chroma instead of plain <pre><code>.
	Highlight bool
}

// Renderer transforms markdown sources into HTML fragments.
type Renderer struct {
	md       goldmark.Markdown
	minifier *minify.M
	policy   *bluemonday.Policy
}

// New constructs a renderer with GitHub-flavored markdown, front matter and
// table-of-contents support.
func New(opts Options) *Renderer {
	extensions := []goldmark.Extender{
		extension.GFM,
		extension.DefinitionList,
		extension.Footnote,
		extension.Typographer,
		meta.Meta,
	}
	if opts.Highlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
				chromahtml.WithAllClasses(true),
				chromahtml.ClassPrefix("z-"),
				chromahtml.PreventSurroundingPre(true),
			),
			highlighting.WithWrapperRenderer(codeWrapper),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			htmlRenderer.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&tocRenderer{}, 100)),
		),
	)

	m := minify.New()
	m.Add("text/html", &minifyhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
		KeepWhitespace:   true,
	})

	return &Renderer{md: md, minifier: m, policy: bluemonday.UGCPolicy()}
}

// Convert turns markdown into HTML, assigns heading ids, replaces every
// paragraph consisting solely of TOCMarker with the table of contents and
// returns the front matter as a key to values mapping.
func (r *Renderer) Convert(src []byte) (*RenderResult, error) {
	reader := text.NewReader(src)
	pctx := parser.NewContext()
	doc := r.md.Parser().Parse(reader, parser.WithContext(pctx))

	metadata, err := meta.TryGet(pctx)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	headings := make([]Heading, 0, 16)
	markers := make([]ast.Node, 0, 1)
	slugCounts := make(map[string]int)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			attr, _ := node.AttributeString("id")
			text := extractText(node, src)
			id := attributeToString(attr)
			if id == "" {
				base := slugify(text)
				count := slugCounts[base]
				if count > 0 {
					id = fmt.Sprintf("%s-%d", base, count)
				} else {
					id = base
				}
				slugCounts[base] = count + 1
				node.SetAttributeString("id", []byte(id))
			} else {
				slugCounts[id]++
			}
			headings = append(headings, Heading{ID: id, Text: text, Level: node.Level})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if extractText(node, src) == TOCMarker {
				markers = append(markers, node)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, marker := range markers {
		parent := marker.Parent()
		parent.ReplaceChild(parent, marker, newTOCBlock(headings))
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, err
	}

	return &RenderResult{HTML: buf.Bytes(), Meta: normalizeMeta(metadata), Headings: headings}, nil
}

// MinifyHTML optimizes a rendered page.
func (r *Renderer) MinifyHTML(raw []byte) ([]byte, error) {
	return r.minifier.Bytes("text/html", raw)
}

// Sanitize strips markup outside the user-generated-content allow list.
func (r *Renderer) Sanitize(raw string) string {
	return r.policy.Sanitize(raw)
}

// normalizeMeta flattens YAML front matter into lower-cased keys mapped to
// string lists; scalars become single-element lists.
func normalizeMeta(raw map[string]interface{}) map[string][]string {
	out := make(map[string][]string, len(raw))
	for key, value := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		switch v := value.(type) {
		case nil:
			out[key] = []string{""}
		case []interface{}:
			values := make([]string, 0, len(v))
			for _, item := range v {
				values = append(values, fmt.Sprint(item))
			}
			out[key] = values
		default:
			out[key] = []string{fmt.Sprint(v)}
		}
	}
	return out
}

// extractText returns the plain text of an inline tree as a reader sees it:
// escapes and entity references resolved, typographer quotes and autolink
// labels included, raw HTML left out.
func extractText(root ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n == root {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			value := node.Segment.Value(source)
			if _, inCode := node.Parent().(*ast.CodeSpan); !inCode {
				value = resolveReferences(util.UnescapePunctuations(value))
			}
			sb.Write(value)
		case *ast.String:
			if node.IsCode() || node.IsRaw() {
				sb.Write(resolveReferences(node.Value))
			} else {
				sb.Write(node.Value)
			}
		case *ast.AutoLink:
			sb.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func resolveReferences(value []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(value))
}

func attributeToString(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func slugify(input string) string {
	// NFKD splits accented letters so the ASCII base survives below.
	input = norm.NFKD.String(strings.TrimSpace(input))
	input = strings.ToLower(input)
	if input == "" {
		return "section"
	}
	var sb strings.Builder
	lastDash := false
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if sb.Len() == 0 || lastDash {
				continue
			}
			sb.WriteByte('-')
			lastDash = true
		default:
			// Skip other characters
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		return "section"
	}
	return slug
}

func codeWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := "text"
	if raw, ok := ctx.Language(); ok && len(raw) > 0 {
		lang = string(raw)
	}
	lang = string(util.EscapeHTML([]byte(lang)))
	if entering {
		_, _ = fmt.Fprintf(w, `<pre tabindex="0" class="z-chroma z-code language-%[1]s" data-lang="%[1]s"><code class="language-%[1]s" data-lang="%[1]s">`, lang)
		return
	}
	_, _ = w.WriteString("</code></pre>\n")
}

package renderer

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindTOC is the node kind of a generated table of contents block.
var KindTOC = ast.NewNodeKind("TOC")

type tocEntry struct {
	heading  Heading
	children []*tocEntry
}

type tocBlock struct {
	ast.BaseBlock
	entries []*tocEntry
}

func newTOCBlock(headings []Heading) *tocBlock {
	return &tocBlock{entries: nestHeadings(headings)}
}

func (n *tocBlock) Kind() ast.NodeKind {
	return KindTOC
}

func (n *tocBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// nestHeadings turns the flat heading sequence into a tree where each heading
// owns the following headings of a deeper level.
func nestHeadings(headings []Heading) []*tocEntry {
	var roots []*tocEntry
	stack := make([]*tocEntry, 0, 6)
	for _, h := range headings {
		entry := &tocEntry{heading: h}
		for len(stack) > 0 && stack[len(stack)-1].heading.Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, entry)
		}
		stack = append(stack, entry)
	}
	return roots
}

// tocRenderer writes the table of contents as
//
//	<div class="toc">
//	<ul>
//	<li><a href="#a">A</a><ul>
//	<li><a href="#a-1">A1</a></li>
//	</ul>
//	</li>
//	</ul>
//	</div>
//
// one tag group per line, the layout the site TOC extractor reads back.
type tocRenderer struct{}

func (r *tocRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTOC, r.render)
}

func (r *tocRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := n.(*tocBlock)
	_, _ = w.WriteString("<div class=\"toc\">\n")
	if len(block.entries) == 0 {
		_, _ = w.WriteString("<ul></ul>\n")
	} else {
		writeTOCList(w, block.entries)
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

func writeTOCList(w util.BufWriter, entries []*tocEntry) {
	_, _ = w.WriteString("<ul>\n")
	for _, entry := range entries {
		_, _ = w.WriteString(`<li><a href="#`)
		_, _ = w.Write(util.EscapeHTML([]byte(entry.heading.ID)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(entry.heading.Text)))
		_, _ = w.WriteString("</a>")
		if len(entry.children) > 0 {
			writeTOCList(w, entry.children)
		}
		_, _ = w.WriteString("</li>\n")
	}
	_, _ = w.WriteString("</ul>\n")
}

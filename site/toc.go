package site

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/iedon/docsite-go/templatex"
)

// tocWrapperLines is the number of converter wrapper lines at each end of a
// table of contents fragment.
const tocWrapperLines = 2

type tocState int

const (
	tocInList   tocState = iota // between items
	tocInAnchor                 // collecting the text of an item link
)

// tocParser is the state machine behind GenerateTOC. stack holds the owner of
// every open <ul>; a nil owner stands for a list that is not nested under an
// item, such as the outermost one.
type tocParser struct {
	state tocState
	stack []*templatex.NavItem
	items []*templatex.NavItem
	last  *templatex.NavItem
	href  string
	title strings.Builder
}

// GenerateTOC parses a table of contents fragment into a tree of nav items
// mirroring the heading nesting. The first two and last two lines of the
// fragment are wrapper markup and are ignored. The first top-level entry is
// always active.
func GenerateTOC(fragment string) (*templatex.TOC, error) {
	toc := &templatex.TOC{Active: templatex.ActiveSet{}}

	lines := splitLines(fragment)
	if len(lines) <= 2*tocWrapperLines {
		return toc, nil
	}
	body := strings.Join(lines[tocWrapperLines:len(lines)-tocWrapperLines], "\n")

	p := &tocParser{}
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedTOC, z.Err())
		}
		if err := p.step(z, tt); err != nil {
			return nil, err
		}
	}
	if p.state == tocInAnchor {
		return nil, fmt.Errorf("%w: unterminated link %q", ErrMalformedTOC, p.href)
	}

	toc.Items = p.items
	if len(toc.Items) > 0 {
		toc.Active.Add(toc.Items[0])
	}
	return toc, nil
}

func (p *tocParser) step(z *html.Tokenizer, tt html.TokenType) error {
	if p.state == tocInAnchor {
		switch tt {
		case html.TextToken:
			p.title.Write(z.Text())
			return nil
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "a" {
				p.closeAnchor()
				return nil
			}
		case html.CommentToken:
			return nil
		}
		return fmt.Errorf("%w: markup inside link %q", ErrMalformedTOC, p.href)
	}

	switch tt {
	case html.StartTagToken:
		name, hasAttr := z.TagName()
		switch string(name) {
		case "li":
			p.last = nil
		case "ul":
			p.stack = append(p.stack, p.last)
			p.last = nil
		case "a":
			href, ok := hrefAttr(z, hasAttr)
			if !ok {
				return fmt.Errorf("%w: link without href", ErrMalformedTOC)
			}
			p.state = tocInAnchor
			p.href = href
			p.title.Reset()
		}
	case html.EndTagToken:
		name, _ := z.TagName()
		switch string(name) {
		case "ul":
			if len(p.stack) == 0 {
				return fmt.Errorf("%w: unbalanced </ul>", ErrMalformedTOC)
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.last = nil
		case "li":
			p.last = nil
		}
	}
	return nil
}

func (p *tocParser) closeAnchor() {
	item := &templatex.NavItem{Title: p.title.String(), URL: p.href}
	if n := len(p.stack); n > 0 && p.stack[n-1] != nil {
		parent := p.stack[n-1]
		parent.Children = append(parent.Children, item)
	} else {
		p.items = append(p.items, item)
	}
	p.last = item
	p.state = tocInList
}

func hrefAttr(z *html.Tokenizer, more bool) (string, bool) {
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if string(key) == "href" {
			return string(val), true
		}
	}
	return "", false
}

// splitLines splits on line breaks without producing a trailing empty line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

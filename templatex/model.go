package templatex

import (
	"html/template"

	"github.com/iedon/docsite-go/config"
)

// NavItem is a node of the site navigation or of a page table of contents.
// Items are not modified once built; per-page state lives in ActiveSet.
type NavItem struct {
	Title    string
	URL      string // empty for a group header without a page of its own
	Children []*NavItem
}

// IsGroup reports whether the item is a synthetic header with no URL.
func (n *NavItem) IsGroup() bool {
	return n.URL == ""
}

// ActiveSet holds the items flagged active for one page render.
type ActiveSet map[*NavItem]struct{}

// Contains reports whether item is active. A nil set contains nothing.
func (s ActiveSet) Contains(item *NavItem) bool {
	_, ok := s[item]
	return ok
}

// Add marks item active.
func (s ActiveSet) Add(item *NavItem) {
	s[item] = struct{}{}
}

// TOC is the heading tree of a single page.
type TOC struct {
	Items  []*NavItem
	Active ActiveSet
}

// Breadcrumb models a single breadcrumb entry for navigation.
type Breadcrumb struct {
	Title   string
	URL     string
	Current bool
}

// PageContext is the data handed to a page template.
type PageContext struct {
	ProjectName string
	PageTitle   string
	Content     template.HTML

	TOC       *TOC
	Nav       []*NavItem
	NavActive ActiveSet
	Meta      map[string][]string
	Config    *config.Config

	URL         string
	BaseURL     string
	HomepageURL string
	PreviousURL string
	NextURL     string
	Breadcrumbs []Breadcrumb
}

package site

import (
	"strings"

	"github.com/iedon/docsite-go/config"
	"github.com/iedon/docsite-go/templatex"
)

// GenerateNav builds the two-level site navigation from the ordered page list.
//
// A title of the form "Parent/Child" files the page under a group header
// named Parent. Only consecutive pages share a group: a Parent title seen
// again after an unrelated entry opens a second header.
func GenerateNav(cfg *config.Config) []*templatex.NavItem {
	nav := make([]*templatex.NavItem, 0, len(cfg.Pages))
	for _, page := range cfg.Pages {
		url := PathToURL(page.Path, cfg)
		title, childTitle, _ := strings.Cut(page.Title, "/")
		title = strings.TrimSpace(title)
		childTitle = strings.TrimSpace(childTitle)

		switch {
		case childTitle == "":
			nav = append(nav, &templatex.NavItem{Title: title, URL: url})
		case len(nav) == 0 || nav[len(nav)-1].Title != title:
			child := &templatex.NavItem{Title: childTitle, URL: url}
			nav = append(nav, &templatex.NavItem{Title: title, Children: []*templatex.NavItem{child}})
		default:
			parent := nav[len(nav)-1]
			parent.Children = append(parent.Children, &templatex.NavItem{Title: childTitle, URL: url})
		}
	}
	return nav
}

// SetNavActive finds the nav item whose URL matches relPath. It returns that
// item, or nil, and a fresh set holding the item plus its parent when the
// match is a child. The nav tree itself is left untouched.
func SetNavActive(relPath string, cfg *config.Config, nav []*templatex.NavItem) (*templatex.NavItem, templatex.ActiveSet) {
	url := PathToURL(relPath, cfg)
	active := templatex.ActiveSet{}
	var match *templatex.NavItem

	for _, item := range nav {
		if item.URL != "" && item.URL == url {
			active.Add(item)
			match = item
		}
		for _, child := range item.Children {
			if child.URL == url {
				active.Add(child)
				active.Add(item)
				match = child
			}
		}
	}
	return match, active
}

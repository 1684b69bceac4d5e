package site

import (
	"github.com/iedon/docsite-go/templatex"
)

// buildBreadcrumbs returns the trail from the top of the nav to active: the
// group header, if any, followed by the page itself.
func buildBreadcrumbs(nav []*templatex.NavItem, active *templatex.NavItem) []templatex.Breadcrumb {
	if active == nil {
		return nil
	}
	for _, item := range nav {
		if item == active {
			return []templatex.Breadcrumb{{Title: item.Title, URL: item.URL, Current: true}}
		}
		for _, child := range item.Children {
			if child != active {
				continue
			}
			return []templatex.Breadcrumb{
				{Title: item.Title, URL: item.URL},
				{Title: child.Title, URL: child.URL, Current: true},
			}
		}
	}
	return nil
}

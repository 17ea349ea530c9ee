// Package nav holds the navigation and fetch primitives the views are built on:
// the page history, pagination cursors and generation-guarded fetch sessions.
//
// Nothing in this package locks. Every method is meant to be called from the
// UI event loop; work done elsewhere comes back through a Loop.
package nav

import (
	"fmt"

	"github.com/jdlms/aws-tui/internal/types"
)

// PageKind tags the Page variant
type PageKind int

const (
	PageHome PageKind = iota
	PageList
	PageDetail
)

func (k PageKind) String() string {
	switch k {
	case PageHome:
		return "home"
	case PageList:
		return "list"
	case PageDetail:
		return "detail"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// Page is one entry of the navigation history.
// Item and Extra are only meaningful for PageDetail.
type Page struct {
	Kind     PageKind
	Resource types.Kind
	Item     types.Item
	Extra    string
}

// Home is the root page
func Home() Page {
	return Page{Kind: PageHome}
}

// List is the listing page of a resource view
func List(kind types.Kind) Page {
	return Page{Kind: PageList, Resource: kind}
}

// Detail is a page nested under a resource view
func Detail(kind types.Kind, item types.Item, extra string) Page {
	return Page{Kind: PageDetail, Resource: kind, Item: item, Extra: extra}
}

// Is reports whether p belongs to the given resource view
func (p Page) Is(kind types.Kind) bool {
	return p.Kind != PageHome && p.Resource == kind
}

func (p Page) String() string {
	switch p.Kind {
	case PageHome:
		return "home"
	case PageList:
		return string(p.Resource)
	default:
		id := ""
		if p.Item != nil {
			id = p.Item.ID()
		}
		return fmt.Sprintf("%s/%s", p.Resource, id)
	}
}

package listbooks

import (
	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// Result is one page of the catalog together with pagination metadata.
type Result struct {
	Books []core.Book
	Total int
	Page  int
	Size  int
	Pages int
}

func resultFrom(query Query, listing entitystore.BookListing) Result {
	return Result{
		Books: listing.Books,
		Total: listing.Total,
		Page:  query.Page.Number,
		Size:  query.Page.Size,
		Pages: core.PageCount(listing.Total, query.Page.Size),
	}
}

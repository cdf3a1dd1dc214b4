package listborrows

import (
	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// Result is one page of borrow transactions together with the pagination
// metadata derived from the pre-pagination total.
type Result struct {
	Records []entitystore.BorrowRecord
	Total   int
	Page    int
	Size    int
	Pages   int
}

func resultFrom(query Query, listing entitystore.BorrowListing) Result {
	return Result{
		Records: listing.Records,
		Total:   listing.Total,
		Page:    query.Filter.Page.Number,
		Size:    query.Filter.Page.Size,
		Pages:   core.PageCount(listing.Total, query.Filter.Page.Size),
	}
}

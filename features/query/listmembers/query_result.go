package listmembers

import (
	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// Result is one page of members together with pagination metadata.
type Result struct {
	Members []core.Member
	Total   int
	Page    int
	Size    int
	Pages   int
}

func resultFrom(query Query, listing entitystore.MemberListing) Result {
	return Result{
		Members: listing.Members,
		Total:   listing.Total,
		Page:    query.Page.Number,
		Size:    query.Page.Size,
		Pages:   core.PageCount(listing.Total, query.Page.Size),
	}
}

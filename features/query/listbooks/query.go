package listbooks

import (
	"github.com/openshelf/circulation/core"
)

const (
	queryType = "ListBooks"
)

// Query represents a validated request for one page of the catalog.
// An empty Search lists everything.
type Query struct {
	Search string
	Page   core.Page
}

// QueryType returns the type identifier for this query, used for logging.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery validates the raw parameters and creates a new Query.
func BuildQuery(search string, pageNumber int, pageSize int, limits core.PageLimits) (Query, error) {
	page, err := core.BuildPage(pageNumber, pageSize, limits)
	if err != nil {
		return Query{}, err
	}

	return Query{Search: search, Page: page}, nil
}

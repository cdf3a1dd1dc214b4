package listmembers

import (
	"github.com/openshelf/circulation/core"
)

const (
	queryType = "ListMembers"
)

// Query represents a validated request for one page of members.
type Query struct {
	Page core.Page
}

// QueryType returns the type identifier for this query, used for logging.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery validates the raw parameters and creates a new Query.
func BuildQuery(pageNumber int, pageSize int, limits core.PageLimits) (Query, error) {
	page, err := core.BuildPage(pageNumber, pageSize, limits)
	if err != nil {
		return Query{}, err
	}

	return Query{Page: page}, nil
}

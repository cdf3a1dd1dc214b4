package listborrows

import (
	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

const (
	queryType = "ListBorrows"
)

// Params carries the raw, unvalidated request parameters of a listing.
// Empty strings and zero numbers select the documented defaults.
type Params struct {
	Status   string
	Include  string
	SortBy   string
	Order    string
	Page     int
	Size     int
	MemberID uuid.UUID
	BookID   uuid.UUID
}

// Query represents a validated request for one page of borrow transactions.
type Query struct {
	Filter core.BorrowListFilter
}

// QueryType returns the type identifier for this query, used for logging.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery validates the raw parameters and creates a new Query. Each
// parameter fails individually with its own invalid-request error.
func BuildQuery(params Params, limits core.PageLimits) (Query, error) {
	status, err := core.ParseStatusFilter(params.Status)
	if err != nil {
		return Query{}, err
	}

	include, err := core.ParseIncludeOption(params.Include)
	if err != nil {
		return Query{}, err
	}

	sortBy, err := core.ParseSortKey(params.SortBy)
	if err != nil {
		return Query{}, err
	}

	order, err := core.ParseSortOrder(params.Order)
	if err != nil {
		return Query{}, err
	}

	page, err := core.BuildPage(params.Page, params.Size, limits)
	if err != nil {
		return Query{}, err
	}

	query := Query{
		Filter: core.BorrowListFilter{
			Status:   status,
			Include:  include,
			SortBy:   sortBy,
			Order:    order,
			Page:     page,
			MemberID: params.MemberID,
			BookID:   params.BookID,
		},
	}

	return query, nil
}

// BuildActiveQuery validates the raw parameters and creates a Query that is
// pinned to active transactions, ignoring any status parameter.
func BuildActiveQuery(params Params, limits core.PageLimits) (Query, error) {
	params.Status = string(core.StatusBorrowed)

	return BuildQuery(params, limits)
}

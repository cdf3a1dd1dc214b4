package listborrows

import (
	"context"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// EntityStore defines the interface needed by the QueryHandler for
// persistence operations.
type EntityStore interface {
	CountAndListBorrows(ctx context.Context, filter core.BorrowListFilter) (entitystore.BorrowListing, error)
}

// QueryHandler executes transaction listing queries.
type QueryHandler struct {
	entityStore EntityStore
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(entityStore EntityStore) QueryHandler {
	return QueryHandler{entityStore: entityStore}
}

// Handle executes the listing and returns one page with pagination metadata.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	listing, err := h.entityStore.CountAndListBorrows(ctx, query.Filter)
	if err != nil {
		return Result{}, err
	}

	return resultFrom(query, listing), nil
}

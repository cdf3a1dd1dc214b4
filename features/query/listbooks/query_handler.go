package listbooks

import (
	"context"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// EntityStore defines the interface needed by the QueryHandler for
// persistence operations.
type EntityStore interface {
	ListBooks(ctx context.Context, search string, page core.Page) (entitystore.BookListing, error)
}

// QueryHandler executes catalog listing queries.
type QueryHandler struct {
	entityStore EntityStore
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(entityStore EntityStore) QueryHandler {
	return QueryHandler{entityStore: entityStore}
}

// Handle executes the listing and returns one page with pagination metadata.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	listing, err := h.entityStore.ListBooks(ctx, query.Search, query.Page)
	if err != nil {
		return Result{}, err
	}

	return resultFrom(query, listing), nil
}

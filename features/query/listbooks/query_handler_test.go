package listbooks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/query/listbooks"
	"github.com/openshelf/circulation/testutil/fakestore"
)

func setupCatalog(t *testing.T) (*fakestore.FakeStore, listbooks.QueryHandler) {
	t.Helper()
	ctx := context.Background()

	store := fakestore.NewFakeStore()

	entries := []struct{ title, author, isbn string }{
		{"The Go Programming Language", "Alan Donovan", "978-0001"},
		{"Learning Go", "Jon Bodner", "978-0002"},
		{"Designing Data-Intensive Applications", "Martin Kleppmann", "978-0003"},
	}

	for _, e := range entries {
		book, err := core.BuildBook(e.title, e.author, e.isbn, 1)
		assert.NoError(t, err)
		assert.NoError(t, store.InsertBook(ctx, book))
	}

	return store, listbooks.NewQueryHandler(store)
}

func Test_QueryHandler_Handle_ListsAllOrderedByTitle(t *testing.T) {
	// setup
	ctx := context.Background()
	_, handler := setupCatalog(t)

	query, err := listbooks.BuildQuery("", 0, 0, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, query)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, "Designing Data-Intensive Applications", result.Books[0].Title)
	assert.Equal(t, "Learning Go", result.Books[1].Title)
	assert.Equal(t, "The Go Programming Language", result.Books[2].Title)
}

func Test_QueryHandler_Handle_SearchMatchesTitleAndAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	_, handler := setupCatalog(t)

	// act + assert: case-insensitive title match
	query, err := listbooks.BuildQuery("go", 0, 0, core.DefaultPageLimits())
	assert.NoError(t, err)

	result, err := handler.Handle(ctx, query)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	// act + assert: author match
	query, err = listbooks.BuildQuery("kleppmann", 0, 0, core.DefaultPageLimits())
	assert.NoError(t, err)

	result, err = handler.Handle(ctx, query)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "Martin Kleppmann", result.Books[0].Author)
}

func Test_QueryHandler_Handle_Pagination(t *testing.T) {
	// setup
	ctx := context.Background()
	_, handler := setupCatalog(t)

	query, err := listbooks.BuildQuery("", 2, 2, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, query)

	// assert: second page of size 2 holds the last of 3 books
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Pages)
	assert.Len(t, result.Books, 1)
}

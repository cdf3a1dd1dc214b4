package listborrows_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/query/listborrows"
	"github.com/openshelf/circulation/testutil/fakestore"
)

type fixture struct {
	store   *fakestore.FakeStore
	handler listborrows.QueryHandler
	members []core.Member
	books   []core.Book
}

// setupFixture seeds three books, two members, and five transactions with
// distinct borrowed dates; the transactions for the first member and first
// two books are already returned.
func setupFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	store := fakestore.NewFakeStore()

	memberNames := []struct{ name, email string }{
		{"Xavier Niel", "xavier@example.com"},
		{"Yvonne Choquet", "yvonne@example.com"},
	}
	members := make([]core.Member, 0, len(memberNames))
	for _, m := range memberNames {
		member, err := core.BuildMember(m.name, m.email)
		assert.NoError(t, err)
		assert.NoError(t, store.InsertMember(ctx, member))
		members = append(members, member)
	}

	bookTitles := []struct{ title, isbn string }{
		{"Alfa", "978-0001"},
		{"Beta", "978-0002"},
		{"Gamma", "978-0003"},
	}
	books := make([]core.Book, 0, len(bookTitles))
	for _, b := range bookTitles {
		book, err := core.BuildBook(b.title, "Some Author", b.isbn, 5)
		assert.NoError(t, err)
		assert.NoError(t, store.InsertBook(ctx, book))
		books = append(books, book)
	}

	borrows := []struct {
		member   core.Member
		book     core.Book
		borrowed time.Time
		returned bool
	}{
		{members[0], books[0], time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{members[0], books[1], time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), true},
		{members[0], books[2], time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{members[1], books[0], time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), false},
		{members[1], books[1], time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), false},
	}

	for _, b := range borrows {
		transaction, err := core.BuildBorrowTransaction(
			b.member.ID, b.book.ID, b.borrowed, time.Time{}, core.DefaultLoanPeriodDays)
		assert.NoError(t, err)

		if b.returned {
			_, err = transaction.MarkReturned(b.borrowed.AddDate(0, 0, 3))
			assert.NoError(t, err)
		}

		assert.NoError(t, store.InsertBorrow(ctx, transaction))
	}

	return fixture{
		store:   store,
		handler: listborrows.NewQueryHandler(store),
		members: members,
		books:   books,
	}
}

func Test_QueryHandler_Handle_DefaultsToNewestFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	query, err := listborrows.BuildQuery(listborrows.Params{}, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := f.handler.Handle(ctx, query)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 1, result.Pages)
	assert.Len(t, result.Records, 5)

	for i := 1; i < len(result.Records); i++ {
		previous := result.Records[i-1].Transaction.BorrowedDate
		current := result.Records[i].Transaction.BorrowedDate
		assert.False(t, previous.Before(current), "default order must be newest first")
	}
}

func Test_QueryHandler_Handle_StatusFilter(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	// act + assert: only active transactions
	query, err := listborrows.BuildQuery(listborrows.Params{Status: "borrowed"}, core.DefaultPageLimits())
	assert.NoError(t, err)

	result, err := f.handler.Handle(ctx, query)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	for _, record := range result.Records {
		assert.True(t, record.Transaction.IsActive())
	}

	// act + assert: only returned transactions
	query, err = listborrows.BuildQuery(listborrows.Params{Status: "returned"}, core.DefaultPageLimits())
	assert.NoError(t, err)

	result, err = f.handler.Handle(ctx, query)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	for _, record := range result.Records {
		assert.False(t, record.Transaction.IsActive())
	}
}

func Test_QueryHandler_Handle_PaginationCoversEveryRecordExactlyOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	seen := make(map[uuid.UUID]bool)
	pageNumber := 1
	totalPages := 0

	// act: walk all pages of size 2
	for {
		query, err := listborrows.BuildQuery(
			listborrows.Params{Page: pageNumber, Size: 2}, core.DefaultPageLimits())
		assert.NoError(t, err)

		result, err := f.handler.Handle(ctx, query)
		assert.NoError(t, err)

		totalPages = result.Pages

		for _, record := range result.Records {
			assert.False(t, seen[record.Transaction.ID], "no record may appear on two pages")
			seen[record.Transaction.ID] = true
		}

		if pageNumber >= result.Pages {
			break
		}
		pageNumber++
	}

	// assert
	assert.Equal(t, 3, totalPages, "5 records in pages of 2")
	assert.Len(t, seen, 5, "every record must appear exactly once")
}

func Test_QueryHandler_Handle_SortByBookTitleForcesExpansion(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	query, err := listborrows.BuildQuery(
		listborrows.Params{SortBy: "book", Order: "asc", Include: "member"}, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := f.handler.Handle(ctx, query)

	// assert: ordered by title ascending, with the book attached even though
	// only the member was requested
	assert.NoError(t, err)
	assert.Len(t, result.Records, 5)

	for i, record := range result.Records {
		assert.NotNil(t, record.Book, "sorting by book title must expand the book")
		assert.NotNil(t, record.Member)

		if i > 0 {
			assert.LessOrEqual(t, result.Records[i-1].Book.Title, record.Book.Title)
		}
	}
}

func Test_QueryHandler_Handle_SortByMemberName(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	query, err := listborrows.BuildQuery(
		listborrows.Params{SortBy: "member", Order: "desc"}, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := f.handler.Handle(ctx, query)

	// assert
	assert.NoError(t, err)
	for i, record := range result.Records {
		assert.NotNil(t, record.Member)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Records[i-1].Member.Name, record.Member.Name)
		}
	}
}

func Test_QueryHandler_Handle_FilterByMember(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	query, err := listborrows.BuildQuery(
		listborrows.Params{MemberID: f.members[1].ID}, core.DefaultPageLimits())
	assert.NoError(t, err)

	// act
	result, err := f.handler.Handle(ctx, query)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	for _, record := range result.Records {
		assert.Equal(t, f.members[1].ID, record.Transaction.MemberID)
	}
}

func Test_BuildActiveQuery_PinsStatus(t *testing.T) {
	// setup
	ctx := context.Background()
	f := setupFixture(t)

	// act: a status parameter is ignored by the active listing
	query, err := listborrows.BuildActiveQuery(listborrows.Params{Status: "returned"}, core.DefaultPageLimits())
	assert.NoError(t, err)

	result, err := f.handler.Handle(ctx, query)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	for _, record := range result.Records {
		assert.True(t, record.Transaction.IsActive())
	}
}

func Test_BuildQuery_RejectsInvalidParameters(t *testing.T) {
	limits := core.DefaultPageLimits()

	_, err := listborrows.BuildQuery(listborrows.Params{Status: "overdue"}, limits)
	assert.ErrorIs(t, err, core.ErrUnknownStatusFilter)

	_, err = listborrows.BuildQuery(listborrows.Params{Include: "everything"}, limits)
	assert.ErrorIs(t, err, core.ErrUnknownIncludeOption)

	_, err = listborrows.BuildQuery(listborrows.Params{SortBy: "title"}, limits)
	assert.ErrorIs(t, err, core.ErrUnknownSortKey)

	_, err = listborrows.BuildQuery(listborrows.Params{Order: "up"}, limits)
	assert.ErrorIs(t, err, core.ErrUnknownSortOrder)

	_, err = listborrows.BuildQuery(listborrows.Params{Size: 1000}, limits)
	assert.ErrorIs(t, err, core.ErrPageSizeOutOfRange)

	_, err = listborrows.BuildQuery(listborrows.Params{Page: -3}, limits)
	assert.ErrorIs(t, err, core.ErrPageNumberOutOfRange)
}

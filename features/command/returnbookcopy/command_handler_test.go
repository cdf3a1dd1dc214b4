package returnbookcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/command/borrowbookcopy"
	"github.com/openshelf/circulation/features/command/returnbookcopy"
	"github.com/openshelf/circulation/testutil/fakestore"
)

func setupBorrowedBook(t *testing.T) (*fakestore.FakeStore, core.Member, core.Book, core.BorrowTransaction) {
	t.Helper()
	ctx := context.Background()

	store := fakestore.NewFakeStore()

	member, err := core.BuildMember("Ada Lovelace", "ada@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(ctx, member))

	book, err := core.BuildBook("Structure and Interpretation", "Abelson, Sussman", "978-0262510875", 2)
	assert.NoError(t, err)
	assert.NoError(t, store.InsertBook(ctx, book))

	borrowHandler := borrowbookcopy.NewCommandHandler(store)
	transaction, err := borrowHandler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))
	assert.NoError(t, err)

	return store, member, book, transaction
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book, transaction := setupBorrowedBook(t)
	handler := returnbookcopy.NewCommandHandler(store)

	// act
	returned, err := handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, book.ID, time.Time{}))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, transaction.ID, returned.ID)
	assert.False(t, returned.IsActive())
	assert.Equal(t, core.Today(), *returned.ReturnedDate)

	storedBook, findErr := store.FindBook(ctx, book.ID)
	assert.NoError(t, findErr)
	assert.Equal(t, 2, storedBook.AvailableCopies, "returning must restore the available counter")
}

func Test_CommandHandler_Handle_IsIdempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book, transaction := setupBorrowedBook(t)
	handler := returnbookcopy.NewCommandHandler(store)

	first, err := handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, book.ID, time.Time{}))
	assert.NoError(t, err)

	// act: return the same book again
	second, err := handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, book.ID, time.Time{}))

	// assert: same closed transaction, no error, no double release
	assert.NoError(t, err)
	assert.Equal(t, transaction.ID, second.ID)
	assert.Equal(t, *first.ReturnedDate, *second.ReturnedDate)

	storedBook, findErr := store.FindBook(ctx, book.ID)
	assert.NoError(t, findErr)
	assert.Equal(t, 2, storedBook.AvailableCopies, "a repeated return must not release another copy")
}

func Test_CommandHandler_Handle_NeverBorrowed(t *testing.T) {
	// setup
	ctx := context.Background()
	store, _, book, _ := setupBorrowedBook(t)
	handler := returnbookcopy.NewCommandHandler(store)

	otherMember, err := core.BuildMember("Grace Hopper", "grace@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(ctx, otherMember))

	// act: a member who never borrowed this book tries to return it
	_, err = handler.Handle(ctx, returnbookcopy.BuildCommand(otherMember.ID, book.ID, time.Time{}))

	// assert
	assert.ErrorIs(t, err, core.ErrNoActiveBorrow)
}

func Test_CommandHandler_Handle_BookNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, _, _ := setupBorrowedBook(t)
	handler := returnbookcopy.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, uuid.New(), time.Time{}))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

func Test_CommandHandler_Handle_ExplicitReturnDate(t *testing.T) {
	// setup
	ctx := context.Background()
	store := fakestore.NewFakeStore()

	member, err := core.BuildMember("Ada Lovelace", "ada@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(ctx, member))

	book, err := core.BuildBook("Title", "Author", "978-1", 1)
	assert.NoError(t, err)
	assert.NoError(t, store.InsertBook(ctx, book))

	borrowed := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	borrowHandler := borrowbookcopy.NewCommandHandler(store)
	_, err = borrowHandler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, borrowed, time.Time{}))
	assert.NoError(t, err)

	handler := returnbookcopy.NewCommandHandler(store)

	// act: returning before the borrowed date is rejected
	_, err = handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, book.ID, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, core.ErrReturnedBeforeBorrowed)

	// act: a valid explicit return date is recorded as given
	returned, err := handler.Handle(ctx, returnbookcopy.BuildCommand(member.ID, book.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), *returned.ReturnedDate)
}

package borrowbookcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/command/borrowbookcopy"
	"github.com/openshelf/circulation/testutil/fakestore"
)

func setupStore(t *testing.T, totalCopies int) (*fakestore.FakeStore, core.Member, core.Book) {
	t.Helper()

	store := fakestore.NewFakeStore()

	member, err := core.BuildMember("Ada Lovelace", "ada@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(context.Background(), member))

	book, err := core.BuildBook("Structure and Interpretation", "Abelson, Sussman", "978-0262510875", totalCopies)
	assert.NoError(t, err)
	assert.NoError(t, store.InsertBook(context.Background(), book))

	return store, member, book
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book := setupStore(t, 2)
	handler := borrowbookcopy.NewCommandHandler(store)

	// act
	transaction, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, member.ID, transaction.MemberID)
	assert.Equal(t, book.ID, transaction.BookID)
	assert.Equal(t, core.Today(), transaction.BorrowedDate)
	assert.Equal(t, core.Today().AddDate(0, 0, core.DefaultLoanPeriodDays), transaction.DueDate)
	assert.True(t, transaction.IsActive())

	storedBook, err := store.FindBook(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, storedBook.AvailableCopies, "borrowing must decrement the available counter")

	stored, err := store.FindActiveBorrow(ctx, member.ID, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, transaction.ID, stored.ID)
}

func Test_CommandHandler_Handle_ConfiguredLoanPeriod(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book := setupStore(t, 1)
	handler := borrowbookcopy.NewCommandHandler(store, borrowbookcopy.WithLoanPeriod(21))

	// act
	transaction, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.Today().AddDate(0, 0, 21), transaction.DueDate)
}

func Test_CommandHandler_Handle_MemberNotFound(t *testing.T) {
	// setup: a book with zero remaining copies, so the error precedence is observable
	ctx := context.Background()
	store, member, book := setupStore(t, 1)
	handler := borrowbookcopy.NewCommandHandler(store)

	_, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))
	assert.NoError(t, err)

	// act: unknown member against the now exhausted book
	_, err = handler.Handle(ctx, borrowbookcopy.BuildCommand(uuid.New(), book.ID, time.Time{}, time.Time{}))

	// assert: the member check wins over the capacity check
	assert.ErrorIs(t, err, core.ErrMemberNotFound)
}

func Test_CommandHandler_Handle_BookNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, _ := setupStore(t, 1)
	handler := borrowbookcopy.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, uuid.New(), time.Time{}, time.Time{}))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

func Test_CommandHandler_Handle_NoCopiesAvailable(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book := setupStore(t, 1)
	handler := borrowbookcopy.NewCommandHandler(store)

	otherMember, err := core.BuildMember("Grace Hopper", "grace@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(ctx, otherMember))

	_, err = handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))
	assert.NoError(t, err)

	// act: the single copy is out, another member wants it
	_, err = handler.Handle(ctx, borrowbookcopy.BuildCommand(otherMember.ID, book.ID, time.Time{}, time.Time{}))

	// assert
	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
}

func Test_CommandHandler_Handle_AlreadyBorrowed(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book := setupStore(t, 5)
	handler := borrowbookcopy.NewCommandHandler(store)

	_, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))
	assert.NoError(t, err)

	// act: the same member tries to borrow the same book again
	_, err = handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))

	// assert: rejected even though copies remain
	assert.ErrorIs(t, err, core.ErrAlreadyBorrowed)

	storedBook, findErr := store.FindBook(ctx, book.ID)
	assert.NoError(t, findErr)
	assert.Equal(t, 4, storedBook.AvailableCopies, "the failed borrow must not consume a copy")
}

func Test_CommandHandler_Handle_DueBeforeBorrowed(t *testing.T) {
	// setup
	ctx := context.Background()
	store, member, book := setupStore(t, 1)
	handler := borrowbookcopy.NewCommandHandler(store)

	borrowed := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// act
	_, err := handler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, borrowed, due))

	// assert
	assert.ErrorIs(t, err, core.ErrDueBeforeBorrowed)

	storedBook, findErr := store.FindBook(ctx, book.ID)
	assert.NoError(t, findErr)
	assert.Equal(t, 1, storedBook.AvailableCopies)
}

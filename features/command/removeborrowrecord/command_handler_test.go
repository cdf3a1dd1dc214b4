package removeborrowrecord_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/command/borrowbookcopy"
	"github.com/openshelf/circulation/features/command/removeborrowrecord"
	"github.com/openshelf/circulation/testutil/fakestore"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := fakestore.NewFakeStore()

	member, err := core.BuildMember("Ada Lovelace", "ada@example.com")
	assert.NoError(t, err)
	assert.NoError(t, store.InsertMember(ctx, member))

	book, err := core.BuildBook("Title", "Author", "978-1", 1)
	assert.NoError(t, err)
	assert.NoError(t, store.InsertBook(ctx, book))

	borrowHandler := borrowbookcopy.NewCommandHandler(store)
	transaction, err := borrowHandler.Handle(ctx, borrowbookcopy.BuildCommand(member.ID, book.ID, time.Time{}, time.Time{}))
	assert.NoError(t, err)

	handler := removeborrowrecord.NewCommandHandler(store)

	// act: delete the active record
	err = handler.Handle(ctx, removeborrowrecord.BuildCommand(transaction.ID))

	// assert: the record is gone, the inventory is deliberately untouched
	assert.NoError(t, err)
	_, err = store.FindBorrow(ctx, transaction.ID)
	assert.ErrorIs(t, err, core.ErrBorrowNotFound)

	storedBook, findErr := store.FindBook(ctx, book.ID)
	assert.NoError(t, findErr)
	assert.Equal(t, 0, storedBook.AvailableCopies, "deleting a record corrects the ledger, it does not return the book")
}

func Test_CommandHandler_Handle_NotFound(t *testing.T) {
	// setup
	store := fakestore.NewFakeStore()
	handler := removeborrowrecord.NewCommandHandler(store)

	// act
	err := handler.Handle(context.Background(), removeborrowrecord.BuildCommand(uuid.New()))

	// assert
	assert.ErrorIs(t, err, core.ErrBorrowNotFound)
}

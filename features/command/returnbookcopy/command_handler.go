package returnbookcopy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindBookForUpdate(ctx context.Context, bookID uuid.UUID) (core.Book, error)
	FindActiveBorrow(ctx context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error)
	FindLatestReturnedBorrow(ctx context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error)
	UpdateBook(ctx context.Context, book core.Book) error
	UpdateBorrow(ctx context.Context, transaction core.BorrowTransaction) error
}

// CommandHandler orchestrates the return workflow:
// Lock book -> Resolve active transaction -> Close it -> Release copy.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the return use case and returns the closed transaction.
//
// When no active transaction exists for the pair, the handler falls back to
// the latest returned one: a repeated return resolves to that transaction
// unchanged, without releasing another copy. Only a pair that was never
// borrowed surfaces core.ErrNoActiveBorrow.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowTransaction, error) {
	var closed core.BorrowTransaction

	txErr := h.entityStore.WithinTransaction(ctx, func(txCtx context.Context) error {
		book, err := h.entityStore.FindBookForUpdate(txCtx, command.BookID)
		if err != nil {
			return err
		}

		transaction, activeErr := h.entityStore.FindActiveBorrow(txCtx, command.MemberID, command.BookID)
		if errors.Is(activeErr, core.ErrNoActiveBorrow) {
			previous, previousErr := h.entityStore.FindLatestReturnedBorrow(txCtx, command.MemberID, command.BookID)
			if previousErr != nil {
				return core.ErrNoActiveBorrow
			}

			closed = previous

			return nil
		}
		if activeErr != nil {
			return activeErr
		}

		changed, markErr := transaction.MarkReturned(command.ReturnedDate)
		if markErr != nil {
			return markErr
		}

		if changed {
			if err = book.ReleaseCopy(); err != nil {
				return err
			}

			if err = h.entityStore.UpdateBorrow(txCtx, transaction); err != nil {
				return err
			}

			if err = h.entityStore.UpdateBook(txCtx, book); err != nil {
				return err
			}
		}

		closed = transaction

		return nil
	})
	if txErr != nil {
		return core.BorrowTransaction{}, txErr
	}

	return closed, nil
}

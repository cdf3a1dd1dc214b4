package borrowbookcopy

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
	FindMember(ctx context.Context, memberID uuid.UUID) (core.Member, error)
	FindBookForUpdate(ctx context.Context, bookID uuid.UUID) (core.Book, error)
	FindActiveBorrow(ctx context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error)
	UpdateBook(ctx context.Context, book core.Book) error
	InsertBorrow(ctx context.Context, transaction core.BorrowTransaction) error
}

// CommandHandler orchestrates the borrow workflow:
// Verify member -> Lock book -> Guard active pair -> Reserve copy -> Record transaction.
type CommandHandler struct {
	entityStore    EntityStore
	loanPeriodDays int
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithLoanPeriod overrides the default loan period applied when a command
// carries no due date.
func WithLoanPeriod(days int) Option {
	return func(h *CommandHandler) {
		h.loanPeriodDays = days
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(entityStore EntityStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		entityStore:    entityStore,
		loanPeriodDays: core.DefaultLoanPeriodDays,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the borrow use case and returns the recorded transaction.
//
// The member lookup runs before any book access, so an unknown member always
// surfaces as core.ErrMemberNotFound even when the book has no copies left.
// The book row stays locked until commit; the partial unique index over
// active pairs backstops the in-transaction guard against concurrent borrows
// of the same book by the same member.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowTransaction, error) {
	var recorded core.BorrowTransaction

	txErr := h.entityStore.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := h.entityStore.FindMember(txCtx, command.MemberID); err != nil {
			return err
		}

		book, err := h.entityStore.FindBookForUpdate(txCtx, command.BookID)
		if err != nil {
			return err
		}

		_, activeErr := h.entityStore.FindActiveBorrow(txCtx, command.MemberID, command.BookID)
		if activeErr == nil {
			return core.ErrAlreadyBorrowed
		}
		if !errors.Is(activeErr, core.ErrNoActiveBorrow) {
			return activeErr
		}

		if err = book.ReserveCopy(); err != nil {
			return err
		}

		transaction, buildErr := core.BuildBorrowTransaction(
			command.MemberID,
			command.BookID,
			command.BorrowedDate,
			command.DueDate,
			h.loanPeriodDays,
		)
		if buildErr != nil {
			return buildErr
		}

		if err = h.entityStore.UpdateBook(txCtx, book); err != nil {
			return err
		}

		if err = h.entityStore.InsertBorrow(txCtx, transaction); err != nil {
			return err
		}

		recorded = transaction

		return nil
	})
	if txErr != nil {
		return core.BorrowTransaction{}, txErr
	}

	return recorded, nil
}

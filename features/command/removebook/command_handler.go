package removebook

import (
	"context"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	HasActiveBorrowForBook(ctx context.Context, bookID uuid.UUID) (bool, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// CommandHandler guards and executes catalog entry deletion.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the remove book use case. A book with an active borrow
// transaction surfaces core.ErrBookHasActiveBorrows; an unknown book surfaces
// core.ErrBookNotFound.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	return h.entityStore.WithinTransaction(ctx, func(txCtx context.Context) error {
		hasActive, err := h.entityStore.HasActiveBorrowForBook(txCtx, command.BookID)
		if err != nil {
			return err
		}

		if hasActive {
			return core.ErrBookHasActiveBorrows
		}

		return h.entityStore.DeleteBook(txCtx, command.BookID)
	})
}

package removeborrowrecord

import (
	"context"

	"github.com/google/uuid"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	DeleteBorrow(ctx context.Context, borrowID uuid.UUID) error
}

// CommandHandler executes borrow record deletion.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the remove borrow record use case. An unknown record
// surfaces core.ErrBorrowNotFound.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	return h.entityStore.DeleteBorrow(ctx, command.BorrowID)
}

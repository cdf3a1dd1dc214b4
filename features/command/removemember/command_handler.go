package removemember

import (
	"context"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	HasActiveBorrowForMember(ctx context.Context, memberID uuid.UUID) (bool, error)
	DeleteMember(ctx context.Context, memberID uuid.UUID) error
}

// CommandHandler guards and executes member deletion.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the remove member use case. A member with an active borrow
// transaction surfaces core.ErrMemberHasActiveBorrows; an unknown member
// surfaces core.ErrMemberNotFound.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	return h.entityStore.WithinTransaction(ctx, func(txCtx context.Context) error {
		hasActive, err := h.entityStore.HasActiveBorrowForMember(txCtx, command.MemberID)
		if err != nil {
			return err
		}

		if hasActive {
			return core.ErrMemberHasActiveBorrows
		}

		return h.entityStore.DeleteMember(txCtx, command.MemberID)
	})
}

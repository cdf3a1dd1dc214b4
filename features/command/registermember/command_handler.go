package registermember

import (
	"context"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	InsertMember(ctx context.Context, member core.Member) error
}

// CommandHandler validates and persists new members.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the register member use case and returns the created member.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Member, error) {
	member, buildErr := core.BuildMember(command.Name, command.Email)
	if buildErr != nil {
		return core.Member{}, buildErr
	}

	if err := h.entityStore.InsertMember(ctx, member); err != nil {
		return core.Member{}, err
	}

	return member, nil
}

package addbook

import (
	"context"
	"errors"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	FindBookByISBN(ctx context.Context, isbn core.ISBNString) (core.Book, error)
	InsertBook(ctx context.Context, book core.Book) error
}

// CommandHandler validates and persists new catalog entries.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the add book use case and returns the created book.
// The ISBN check runs up front for a clean error; the unique index catches
// submissions racing past it and surfaces the same core.ErrDuplicateISBN.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, error) {
	book, buildErr := core.BuildBook(command.Title, command.Author, command.ISBN, command.TotalCopies)
	if buildErr != nil {
		return core.Book{}, buildErr
	}

	_, lookupErr := h.entityStore.FindBookByISBN(ctx, book.ISBN)
	if lookupErr == nil {
		return core.Book{}, core.ErrDuplicateISBN
	}
	if !errors.Is(lookupErr, core.ErrBookNotFound) {
		return core.Book{}, lookupErr
	}

	if err := h.entityStore.InsertBook(ctx, book); err != nil {
		return core.Book{}, err
	}

	return book, nil
}

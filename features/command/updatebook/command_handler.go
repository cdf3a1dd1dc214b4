package updatebook

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

// EntityStore defines the interface needed by the CommandHandler for
// persistence operations.
type EntityStore interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindBookForUpdate(ctx context.Context, bookID uuid.UUID) (core.Book, error)
	UpdateBook(ctx context.Context, book core.Book) error
}

// CommandHandler applies partial updates to catalog entries under a row lock,
// so a copy-count adjustment cannot race a concurrent borrow or return.
type CommandHandler struct {
	entityStore EntityStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(entityStore EntityStore) CommandHandler {
	return CommandHandler{entityStore: entityStore}
}

// Handle executes the update book use case and returns the updated book.
// Moving to an ISBN already used by another book surfaces as
// core.ErrDuplicateISBN from the unique index.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, error) {
	var updated core.Book

	txErr := h.entityStore.WithinTransaction(ctx, func(txCtx context.Context) error {
		book, err := h.entityStore.FindBookForUpdate(txCtx, command.BookID)
		if err != nil {
			return err
		}

		if command.Title != nil {
			if strings.TrimSpace(*command.Title) == "" {
				return core.ErrBookTitleEmpty
			}
			book.Title = *command.Title
		}

		if command.Author != nil {
			if strings.TrimSpace(*command.Author) == "" {
				return core.ErrBookAuthorEmpty
			}
			book.Author = *command.Author
		}

		if command.ISBN != nil {
			if strings.TrimSpace(*command.ISBN) == "" {
				return core.ErrBookISBNEmpty
			}
			book.ISBN = *command.ISBN
		}

		if command.TotalCopies != nil {
			if err = book.AdjustTotalCopies(*command.TotalCopies); err != nil {
				return err
			}
		}

		if err = h.entityStore.UpdateBook(txCtx, book); err != nil {
			return err
		}

		updated = book

		return nil
	})
	if txErr != nil {
		return core.Book{}, txErr
	}

	return updated, nil
}

package updatebook

import (
	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

const (
	commandType = "UpdateBook"
)

// Command represents the intent to change a catalog entry. Nil fields are
// left untouched.
type Command struct {
	BookID      uuid.UUID
	Title       *string
	Author      *string
	ISBN        *core.ISBNString
	TotalCopies *int
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, title *string, author *string, isbn *core.ISBNString, totalCopies *int) Command {
	return Command{
		BookID:      bookID,
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		TotalCopies: totalCopies,
	}
}

package addbook

import (
	"github.com/openshelf/circulation/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a new book to the catalog.
type Command struct {
	Title       string
	Author      string
	ISBN        core.ISBNString
	TotalCopies int
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(title string, author string, isbn core.ISBNString, totalCopies int) Command {
	return Command{
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		TotalCopies: totalCopies,
	}
}

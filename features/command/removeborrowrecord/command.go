package removeborrowrecord

import (
	"github.com/google/uuid"
)

const (
	commandType = "RemoveBorrowRecord"
)

// Command represents the intent to delete a borrow transaction record.
type Command struct {
	BorrowID uuid.UUID
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(borrowID uuid.UUID) Command {
	return Command{BorrowID: borrowID}
}

package returnbookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

const (
	commandType = "ReturnBookCopy"
)

// Command represents the intent of a member to return a borrowed book copy.
// ReturnedDate is optional; a zero value selects today.
type Command struct {
	MemberID     uuid.UUID
	BookID       uuid.UUID
	ReturnedDate core.Date
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID, bookID uuid.UUID, returnedDate time.Time) Command {
	return Command{
		MemberID:     memberID,
		BookID:       bookID,
		ReturnedDate: core.ToDate(returnedDate),
	}
}

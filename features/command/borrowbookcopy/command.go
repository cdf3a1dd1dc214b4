package borrowbookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
)

const (
	commandType = "BorrowBookCopy"
)

// Command represents the intent of a member to borrow a copy of a book.
// BorrowedDate and DueDate are optional; zero values select the defaults,
// today and today plus the configured loan period.
type Command struct {
	MemberID     uuid.UUID
	BookID       uuid.UUID
	BorrowedDate core.Date
	DueDate      core.Date
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID, bookID uuid.UUID, borrowedDate time.Time, dueDate time.Time) Command {
	return Command{
		MemberID:     memberID,
		BookID:       bookID,
		BorrowedDate: core.ToDate(borrowedDate),
		DueDate:      core.ToDate(dueDate),
	}
}

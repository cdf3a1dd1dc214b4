package removemember

import (
	"github.com/google/uuid"
)

const (
	commandType = "RemoveMember"
)

// Command represents the intent to remove a member.
type Command struct {
	MemberID uuid.UUID
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID uuid.UUID) Command {
	return Command{MemberID: memberID}
}

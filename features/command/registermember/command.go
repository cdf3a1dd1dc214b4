package registermember

import (
	"github.com/openshelf/circulation/core"
)

const (
	commandType = "RegisterMember"
)

// Command represents the intent to register a new member.
type Command struct {
	Name  string
	Email core.EmailString
}

// CommandType returns the type identifier for this command, used for logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(name string, email core.EmailString) Command {
	return Command{Name: name, Email: email}
}

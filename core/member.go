package core

import (
	"strings"

	"github.com/google/uuid"
)

// Member represents a registered library member.
type Member struct {
	ID    uuid.UUID
	Name  string
	Email EmailString
}

// BuildMember creates a new Member.
func BuildMember(name string, email EmailString) (Member, error) {
	if strings.TrimSpace(name) == "" {
		return Member{}, ErrMemberNameEmpty
	}

	if !isPlausibleEmail(email) {
		return Member{}, ErrMemberEmailInvalid
	}

	member := Member{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
	}

	return member, nil
}

// isPlausibleEmail checks the minimal shape local@domain; full RFC validation
// is the mail server's problem.
func isPlausibleEmail(email string) bool {
	at := strings.Index(email, "@")

	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

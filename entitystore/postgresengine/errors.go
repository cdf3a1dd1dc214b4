package postgresengine

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/openshelf/circulation/core"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

// translateUniqueViolation maps a unique constraint violation onto the domain
// error for the violated constraint, so duplicate writes that race past the
// application-level checks surface as the same conflict errors. It returns
// nil when err is not a unique violation.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domainErrorForConstraint(pgErr.ConstraintName)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return domainErrorForConstraint(pqErr.Constraint)
	}

	return nil
}

func domainErrorForConstraint(constraintName string) error {
	switch {
	case strings.Contains(constraintName, colISBN):
		return core.ErrDuplicateISBN
	case strings.Contains(constraintName, colEmail):
		return core.ErrDuplicateEmail
	case strings.Contains(constraintName, "active_pair"):
		return core.ErrAlreadyBorrowed
	default:
		return nil
	}
}

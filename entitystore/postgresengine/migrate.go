package postgresengine

import (
	"context"
	"errors"

	"github.com/openshelf/circulation/entitystore"
)

// schemaStatements creates the circulation schema. Statements are idempotent
// so Migrate can run on every deployment.
//
// borrow_transactions carries no foreign keys: transactions are a historical
// ledger and must survive the deletion of the book or member they reference.
// The partial unique index over active pairs is the storage-level backstop
// for the single-active-borrow rule.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id               uuid PRIMARY KEY,
		title            text NOT NULL,
		author           text NOT NULL,
		isbn             text NOT NULL,
		total_copies     integer NOT NULL,
		available_copies integer NOT NULL,
		CONSTRAINT books_isbn_not_empty CHECK (isbn <> ''),
		CONSTRAINT books_total_copies_positive CHECK (total_copies >= 1),
		CONSTRAINT books_available_within_total CHECK (available_copies >= 0 AND available_copies <= total_copies)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS books_isbn_idx ON books (isbn)`,

	`CREATE TABLE IF NOT EXISTS members (
		id    uuid PRIMARY KEY,
		name  text NOT NULL,
		email text NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS members_email_idx ON members (email)`,

	`CREATE TABLE IF NOT EXISTS borrow_transactions (
		id            uuid PRIMARY KEY,
		member_id     uuid NOT NULL,
		book_id       uuid NOT NULL,
		borrowed_date date NOT NULL,
		due_date      date NOT NULL,
		returned_date date NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS borrow_transactions_active_pair_idx
		ON borrow_transactions (member_id, book_id)
		WHERE returned_date IS NULL`,

	`CREATE INDEX IF NOT EXISTS borrow_transactions_member_idx ON borrow_transactions (member_id)`,

	`CREATE INDEX IF NOT EXISTS borrow_transactions_book_idx ON borrow_transactions (book_id)`,

	`CREATE INDEX IF NOT EXISTS borrow_transactions_borrowed_date_idx ON borrow_transactions (borrowed_date)`,

	`CREATE INDEX IF NOT EXISTS borrow_transactions_due_date_idx ON borrow_transactions (due_date)`,
}

// Migrate creates or updates the database schema.
func (es *EntityStore) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, execErr := es.db.Exec(ctx, statement); execErr != nil {
			es.logError(logMsgDBExecFailed, execErr, logAttrQuery, statement)
			return errors.Join(entitystore.ErrExecutingFailed, execErr)
		}
	}

	return nil
}

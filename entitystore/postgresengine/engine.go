package postgresengine

import (
	"database/sql"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/openshelf/circulation/entitystore"
	"github.com/openshelf/circulation/entitystore/postgresengine/internal/adapters"
)

const (
	tableBooks   = "books"
	tableMembers = "members"
	tableBorrows = "borrow_transactions"

	colID              = "id"
	colTitle           = "title"
	colAuthor          = "author"
	colISBN            = "isbn"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colName            = "name"
	colEmail           = "email"
	colMemberID        = "member_id"
	colBookID          = "book_id"
	colBorrowedDate    = "borrowed_date"
	colDueDate         = "due_date"
	colReturnedDate    = "returned_date"

	dialectPostgres = "postgres"

	logMsgBuildQueryFailed  = "failed to build sql query"
	logMsgDBQueryFailed     = "database query execution failed"
	logMsgDBExecFailed      = "database execution failed"
	logMsgCloseRowsFailed   = "failed to close database rows"
	logMsgScanRowFailed     = "failed to scan database row"
	logMsgRowsAffectedFail  = "failed to get rows affected count"
	logMsgTxBeginFailed     = "failed to begin database transaction"
	logMsgTxCommitFailed    = "failed to commit database transaction"
	logMsgTxRollbackFailed  = "failed to roll back database transaction"
	logMsgSQLExecuted       = "executed sql for: "
	logMsgOperation         = "entitystore operation: "
	logMsgListingCompleted  = "borrow listing completed"
	logMsgUniqueViolation   = "unique constraint violation translated"
	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrDurationMS       = "duration_ms"
	logAttrRowsAffected     = "rows_affected"
	logAttrRecordCount      = "record_count"
	logAttrTotal            = "total"
	logAttrConstraint       = "constraint"
	logActionQuery          = "query"
	logActionExec           = "exec"
)

// Logger interface for SQL query logging, operational messages, warnings, and
// error reporting. A slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// EntityStore persists the circulation domain in PostgreSQL. It works with a
// database adapter and supports customizable logging.
type EntityStore struct {
	db     adapters.DBAdapter
	logger Logger
}

// Option defines a functional option for configuring the EntityStore.
type Option func(*EntityStore) error

// WithLogger sets the logger for the EntityStore.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation outcomes with row counts and durations
// Warn level: non-critical issues like rollback or cleanup failures
// Error level: failures that cause operation errors.
func WithLogger(logger Logger) Option {
	return func(es *EntityStore) error {
		es.logger = logger
		return nil
	}
}

// NewEntityStoreFromPGXPool creates a new EntityStore using a pgx pool with optional configuration.
func NewEntityStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EntityStore, error) {
	if db == nil {
		return nil, entitystore.ErrNilDatabaseConnection
	}

	return newEntityStore(adapters.NewPGXAdapter(db), options...)
}

// NewEntityStoreFromSQLDB creates a new EntityStore using a sql.DB with optional configuration.
func NewEntityStoreFromSQLDB(db *sql.DB, options ...Option) (*EntityStore, error) {
	if db == nil {
		return nil, entitystore.ErrNilDatabaseConnection
	}

	return newEntityStore(adapters.NewSQLAdapter(db), options...)
}

// NewEntityStoreFromSQLX creates a new EntityStore using a sqlx.DB with optional configuration.
func NewEntityStoreFromSQLX(db *sqlx.DB, options ...Option) (*EntityStore, error) {
	if db == nil {
		return nil, entitystore.ErrNilDatabaseConnection
	}

	return newEntityStore(adapters.NewSQLXAdapter(db), options...)
}

func newEntityStore(db adapters.DBAdapter, options ...Option) (*EntityStore, error) {
	es := &EntityStore{db: db}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

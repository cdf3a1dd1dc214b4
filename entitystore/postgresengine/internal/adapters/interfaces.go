package adapters

import "context"

// DBExecutor defines the query and exec operations shared by a connection
// handle and an open transaction.
type DBExecutor interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the entity store.
type DBAdapter interface {
	DBExecutor
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx defines the interface for an open database transaction.
type DBTx interface {
	DBExecutor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

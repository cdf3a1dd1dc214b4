package postgresengine

import (
	"context"
	"errors"

	"github.com/openshelf/circulation/entitystore"
	"github.com/openshelf/circulation/entitystore/postgresengine/internal/adapters"
)

type txContextKey struct{}

// contextWithTx stashes an open transaction in the context so every store
// method called from inside a unit of work executes on that transaction.
func contextWithTx(ctx context.Context, tx adapters.DBTx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func txFromContext(ctx context.Context) adapters.DBTx {
	tx, _ := ctx.Value(txContextKey{}).(adapters.DBTx)
	return tx
}

// querier returns the executor for the current context: the open transaction
// when running inside a unit of work, the connection adapter otherwise.
func (es *EntityStore) querier(ctx context.Context) adapters.DBExecutor {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}

	return es.db
}

// WithinTransaction runs fn inside a single database transaction: every store
// call made with the context passed to fn commits or rolls back as one atomic
// unit. Nested calls join the already open transaction.
func (es *EntityStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, beginErr := es.db.BeginTx(ctx)
	if beginErr != nil {
		es.logError(logMsgTxBeginFailed, beginErr)
		return errors.Join(entitystore.ErrTransactionFailed, beginErr)
	}

	if fnErr := fn(contextWithTx(ctx, tx)); fnErr != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			es.logWarn(logMsgTxRollbackFailed, rollbackErr)
		}

		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		es.logError(logMsgTxCommitFailed, commitErr)

		if translated := translateUniqueViolation(commitErr); translated != nil {
			return translated
		}

		return errors.Join(entitystore.ErrTransactionFailed, commitErr)
	}

	return nil
}

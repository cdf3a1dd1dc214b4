package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/openshelf/circulation/entitystore"
	"github.com/openshelf/circulation/entitystore/postgresengine/internal/adapters"
)

// executeQuery runs a select statement and returns the rows; the caller owns
// closing them via closeRows.
func (es *EntityStore) executeQuery(ctx context.Context, sqlQuery string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := es.querier(ctx).Query(ctx, sqlQuery)
	es.logQueryWithDuration(sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		es.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(entitystore.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// executeStatement runs a mutating statement and returns the number of rows
// affected. Unique constraint violations are translated into the matching
// domain error instead of being surfaced as raw storage errors.
func (es *EntityStore) executeStatement(ctx context.Context, sqlQuery string) (int64, error) {
	start := time.Now()
	result, execErr := es.querier(ctx).Exec(ctx, sqlQuery)
	es.logQueryWithDuration(sqlQuery, logActionExec, time.Since(start))

	if execErr != nil {
		if translated := translateUniqueViolation(execErr); translated != nil {
			es.logOperation(logMsgUniqueViolation, logAttrConstraint, translated.Error())
			return 0, translated
		}

		es.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return 0, errors.Join(entitystore.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(logMsgRowsAffectedFail, rowsAffectedErr)
		return 0, errors.Join(entitystore.ErrExecutingFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (es *EntityStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(logMsgCloseRowsFailed, closeErr)
	}
}

// queryOneInt runs a statement expected to return a single integer, such as a
// count, and returns 0 when no row is produced.
func (es *EntityStore) queryOneInt(ctx context.Context, sqlQuery string) (int, error) {
	rows, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return 0, queryErr
	}
	defer es.closeRows(rows)

	value := 0
	if rows.Next() {
		if scanErr := rows.Scan(&value); scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)
			return 0, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
		}
	}

	return value, nil
}

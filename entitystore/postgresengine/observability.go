package postgresengine

import (
	"math"
	"time"
)

// logQueryWithDuration logs SQL statements with execution time at debug level
// if the logger is configured.
func (es *EntityStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, es.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (es *EntityStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if the logger is configured.
func (es *EntityStore) logWarn(message string, err error) {
	if es.logger != nil {
		es.logger.Warn(message, logAttrError, err.Error())
	}
}

// logError logs error information at the error level if the logger is configured.
func (es *EntityStore) logError(message string, err error, args ...any) {
	if es.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (es *EntityStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

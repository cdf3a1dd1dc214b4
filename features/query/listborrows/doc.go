// Package listborrows implements the transaction listing query. A query is
// built from raw request parameters (status, include, sort key, direction,
// pagination) and validated up front; the storage engine composes the
// matching SQL, counts before paginating, and expands related entities.
package listborrows

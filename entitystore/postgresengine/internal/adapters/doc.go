// Package adapters provides database abstraction for the entity store engine.
//
// It wraps the three supported PostgreSQL access libraries (pgxpool.Pool,
// database/sql, sqlx.DB) behind small interfaces so the engine can build and
// execute its SQL without knowing which driver is in use. Transactions are
// part of the abstraction because every state-changing engine operation runs
// inside a unit of work.
package adapters

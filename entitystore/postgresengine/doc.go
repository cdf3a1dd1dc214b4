// Package postgresengine implements the PostgreSQL entity store for the
// circulation backend.
//
// The engine persists books, members and borrow transactions, composes the
// filtered/sorted/expanded/paginated transaction listings, and supplies the
// unit of work every state-changing operation runs in. All SQL is built with
// goqu; execution goes through a small adapter layer so the engine works with
// pgxpool.Pool, database/sql and sqlx.DB alike.
//
// Consistency model: commands run inside WithinTransaction and lock the book
// row before touching its counters, so concurrent borrows of the last copy
// serialize at the database. A partial unique index over active
// (member_id, book_id) pairs backstops the application-level guard; its
// violation is translated to the domain's already-borrowed error.
package postgresengine

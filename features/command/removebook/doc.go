// Package removebook implements deleting a catalog entry. A book with at
// least one active borrow transaction cannot be removed; the guard probes for
// existence with a limit-1 query inside the same database transaction as the
// delete. Historical transactions do not block removal and survive it.
package removebook

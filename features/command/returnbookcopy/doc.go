// Package returnbookcopy implements the return use case: the member's active
// transaction for the book is closed with a return date and the book's
// available counter is incremented. Returning an already returned book is
// idempotent; the handler resolves it to the latest closed transaction
// without touching the inventory again.
package returnbookcopy

// Package borrowbookcopy implements the borrow use case: a member takes out
// one copy of a book, the book's available counter is decremented, and a new
// borrow transaction is recorded. All checks and writes happen in one database
// transaction with the book row locked, so concurrent borrows of the last copy
// cannot both succeed.
package borrowbookcopy

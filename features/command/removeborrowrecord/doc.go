// Package removeborrowrecord implements the administrative hard delete of a
// borrow transaction. It works on any transaction regardless of state and
// deliberately leaves the book's copy counters untouched: removing a record
// corrects the ledger, it does not return a book.
package removeborrowrecord

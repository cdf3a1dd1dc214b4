// Package core contains the pure domain model for the library circulation
// backend: books with their copy counters, members, borrow transactions and
// the business rules that tie them together.
//
// Everything in this package is side-effect free. The inventory rules
// (reserving and releasing copies) are methods on Book, the lifecycle rules
// (date defaults, idempotent returns) are methods on BorrowTransaction, and
// all business-rule violations are typed sentinel errors that callers match
// with errors.Is.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core

package core

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLoanPeriodDays is the loan period applied when a borrow request does
// not supply a due date.
const DefaultLoanPeriodDays = 7

// BorrowTransaction records one lending of a book copy to a member.
// A transaction is active while ReturnedDate is nil; once returned it is
// append-only and a repeated return resolves to a no-op.
type BorrowTransaction struct {
	ID           uuid.UUID
	MemberID     uuid.UUID
	BookID       uuid.UUID
	BorrowedDate Date
	DueDate      Date
	ReturnedDate *Date
}

// BuildBorrowTransaction creates a new active BorrowTransaction.
// A zero borrowedDate defaults to today; a zero dueDate defaults to the
// borrowed date plus loanPeriodDays (callers pass DefaultLoanPeriodDays
// unless configured otherwise).
func BuildBorrowTransaction(
	memberID uuid.UUID,
	bookID uuid.UUID,
	borrowedDate time.Time,
	dueDate time.Time,
	loanPeriodDays int,
) (BorrowTransaction, error) {

	borrowed := Today()
	if !borrowedDate.IsZero() {
		borrowed = ToDate(borrowedDate)
	}

	due := borrowed.AddDate(0, 0, loanPeriodDays)
	if !dueDate.IsZero() {
		due = ToDate(dueDate)
	}

	if due.Before(borrowed) {
		return BorrowTransaction{}, ErrDueBeforeBorrowed
	}

	transaction := BorrowTransaction{
		ID:           uuid.New(),
		MemberID:     memberID,
		BookID:       bookID,
		BorrowedDate: borrowed,
		DueDate:      due,
	}

	return transaction, nil
}

// IsActive reports whether the book copy is still out with the member.
func (t BorrowTransaction) IsActive() bool {
	return t.ReturnedDate == nil
}

// MarkReturned closes the transaction with the given return date (a zero time
// means today). It reports whether the state actually changed: marking an
// already returned transaction is a no-op and returns false without error.
func (t *BorrowTransaction) MarkReturned(returnedDate time.Time) (bool, error) {
	if t.ReturnedDate != nil {
		return false, nil
	}

	returned := Today()
	if !returnedDate.IsZero() {
		returned = ToDate(returnedDate)
	}

	if returned.Before(t.BorrowedDate) {
		return false, ErrReturnedBeforeBorrowed
	}

	t.ReturnedDate = &returned

	return true, nil
}

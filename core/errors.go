package core

import (
	"errors"
)

// Not-found errors: the referenced entity does not exist.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrBorrowNotFound = errors.New("borrow transaction not found")
	ErrNoActiveBorrow = errors.New("no active borrow record found for this member and book")
)

// Conflict errors: the operation contradicts the current state.
var (
	ErrNoCopiesAvailable      = errors.New("no copies available")
	ErrAlreadyBorrowed        = errors.New("member already has an active borrow for this book")
	ErrBookHasActiveBorrows   = errors.New("cannot delete book that is currently borrowed, it must be returned first")
	ErrMemberHasActiveBorrows = errors.New("cannot delete member with active borrow transactions, all books must be returned first")
	ErrDuplicateISBN          = errors.New("book with this ISBN already exists")
	ErrDuplicateEmail         = errors.New("member with this email already exists")
)

// Invalid-request errors: the input violates a domain constraint.
var (
	ErrBookTitleEmpty          = errors.New("book title must not be empty")
	ErrBookAuthorEmpty         = errors.New("book author must not be empty")
	ErrBookISBNEmpty           = errors.New("book isbn must not be empty")
	ErrTotalCopiesInvalid      = errors.New("total copies must be at least 1")
	ErrTotalCopiesBelowLent    = errors.New("total copies must not drop below the number of copies currently lent out")
	ErrAllCopiesInStock        = errors.New("all copies are already in stock, nothing to release")
	ErrMemberNameEmpty         = errors.New("member name must not be empty")
	ErrMemberEmailInvalid      = errors.New("member email is not a valid address")
	ErrReturnedBeforeBorrowed  = errors.New("returned date must not be before the borrowed date")
	ErrDueBeforeBorrowed       = errors.New("due date must not be before the borrowed date")
	ErrUnknownStatusFilter     = errors.New("status must be one of: all, borrowed, returned")
	ErrUnknownIncludeOption    = errors.New("include must be one of: book, member, all")
	ErrUnknownSortKey          = errors.New("sort_by must be one of: borrowed_date, due_date, book, member")
	ErrUnknownSortOrder        = errors.New("order must be one of: asc, desc")
	ErrPageNumberOutOfRange    = errors.New("page must be greater or equal 1")
	ErrPageSizeOutOfRange      = errors.New("size is outside the allowed range")
)

// ErrorKind classifies business-rule violations for the boundary layer.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConflict
	KindInvalidRequest
)

var notFoundErrors = []error{
	ErrBookNotFound,
	ErrMemberNotFound,
	ErrBorrowNotFound,
	ErrNoActiveBorrow,
}

var conflictErrors = []error{
	ErrNoCopiesAvailable,
	ErrAlreadyBorrowed,
	ErrBookHasActiveBorrows,
	ErrMemberHasActiveBorrows,
	ErrDuplicateISBN,
	ErrDuplicateEmail,
}

var invalidRequestErrors = []error{
	ErrBookTitleEmpty,
	ErrBookAuthorEmpty,
	ErrBookISBNEmpty,
	ErrTotalCopiesInvalid,
	ErrTotalCopiesBelowLent,
	ErrAllCopiesInStock,
	ErrMemberNameEmpty,
	ErrMemberEmailInvalid,
	ErrReturnedBeforeBorrowed,
	ErrDueBeforeBorrowed,
	ErrUnknownStatusFilter,
	ErrUnknownIncludeOption,
	ErrUnknownSortKey,
	ErrUnknownSortOrder,
	ErrPageNumberOutOfRange,
	ErrPageSizeOutOfRange,
}

// KindOf returns the ErrorKind for err, or KindUnknown for errors that are
// not business-rule violations (infrastructure failures and the like).
func KindOf(err error) ErrorKind {
	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			return KindNotFound
		}
	}

	for _, conflict := range conflictErrors {
		if errors.Is(err, conflict) {
			return KindConflict
		}
	}

	for _, invalid := range invalidRequestErrors {
		if errors.Is(err, invalid) {
			return KindInvalidRequest
		}
	}

	return KindUnknown
}

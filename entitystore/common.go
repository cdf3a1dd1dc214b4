package entitystore

import (
	"errors"

	"github.com/openshelf/circulation/core"
)

var (
	// ErrNilDatabaseConnection is returned by engine constructors when the
	// supplied connection handle is nil.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrBuildingQueryFailed wraps SQL builder failures.
	ErrBuildingQueryFailed = errors.New("failed to build sql query")

	// ErrQueryingFailed wraps database read failures.
	ErrQueryingFailed = errors.New("database query execution failed")

	// ErrExecutingFailed wraps database write failures.
	ErrExecutingFailed = errors.New("database execution failed")

	// ErrScanningDBRowFailed wraps row scan failures.
	ErrScanningDBRowFailed = errors.New("failed to scan database row")

	// ErrTransactionFailed wraps begin/commit failures of a unit of work.
	ErrTransactionFailed = errors.New("database transaction failed")
)

// BorrowRecord is one row of a transaction listing, with the related entities
// attached according to the expand rules of the request.
type BorrowRecord struct {
	Transaction core.BorrowTransaction
	Book        *core.Book
	Member      *core.Member
}

// BorrowListing is the result of the query composer: the page of records plus
// the total number of rows matching the filter before pagination.
type BorrowListing struct {
	Records []BorrowRecord
	Total   int
}

// BookListing is one page of catalog entries plus the pre-pagination total.
type BookListing struct {
	Books []core.Book
	Total int
}

// MemberListing is one page of members plus the pre-pagination total.
type MemberListing struct {
	Members []core.Member
	Total   int
}

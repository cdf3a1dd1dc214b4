package core

import (
	"github.com/google/uuid"
)

/***** StatusFilter *****/

// StatusFilter narrows a transaction listing by lifecycle state.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusBorrowed StatusFilter = "borrowed"
	StatusReturned StatusFilter = "returned"
)

// ParseStatusFilter parses the external representation; empty defaults to all.
func ParseStatusFilter(value string) (StatusFilter, error) {
	switch StatusFilter(value) {
	case StatusAll, "":
		return StatusAll, nil
	case StatusBorrowed:
		return StatusBorrowed, nil
	case StatusReturned:
		return StatusReturned, nil
	default:
		return "", ErrUnknownStatusFilter
	}
}

/***** IncludeOption *****/

// IncludeOption controls which related entities are expanded on result rows.
type IncludeOption string

const (
	IncludeBook   IncludeOption = "book"
	IncludeMember IncludeOption = "member"
	IncludeAll    IncludeOption = "all"
)

// ParseIncludeOption parses the external representation; empty defaults to all.
func ParseIncludeOption(value string) (IncludeOption, error) {
	switch IncludeOption(value) {
	case IncludeAll, "":
		return IncludeAll, nil
	case IncludeBook:
		return IncludeBook, nil
	case IncludeMember:
		return IncludeMember, nil
	default:
		return "", ErrUnknownIncludeOption
	}
}

// WantsBook reports whether book expansion was requested.
func (i IncludeOption) WantsBook() bool {
	return i == IncludeBook || i == IncludeAll
}

// WantsMember reports whether member expansion was requested.
func (i IncludeOption) WantsMember() bool {
	return i == IncludeMember || i == IncludeAll
}

/***** SortKey / SortOrder *****/

// SortKey selects the attribute a transaction listing is ordered by.
// BookTitle and MemberName sort by the related entity and force its expansion.
type SortKey string

const (
	SortByBorrowedDate SortKey = "borrowed_date"
	SortByDueDate      SortKey = "due_date"
	SortByBookTitle    SortKey = "book"
	SortByMemberName   SortKey = "member"
)

// ParseSortKey parses the external representation; empty defaults to borrowed_date.
func ParseSortKey(value string) (SortKey, error) {
	switch SortKey(value) {
	case SortByBorrowedDate, "":
		return SortByBorrowedDate, nil
	case SortByDueDate:
		return SortByDueDate, nil
	case SortByBookTitle:
		return SortByBookTitle, nil
	case SortByMemberName:
		return SortByMemberName, nil
	default:
		return "", ErrUnknownSortKey
	}
}

// SortOrder is the listing direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder parses the external representation; empty defaults to desc,
// matching the API contract of newest-first listings.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case OrderDesc, "":
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	default:
		return "", ErrUnknownSortOrder
	}
}

/***** Page *****/

// PageLimits carries the configured pagination bounds.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPageLimits matches the API contract: default page size 10, max 100.
func DefaultPageLimits() PageLimits {
	return PageLimits{DefaultSize: 10, MaxSize: 100}
}

// Page is a validated offset-pagination request.
type Page struct {
	Number int
	Size   int
}

// BuildPage validates a pagination request against the configured limits.
// Zero values select the defaults (page 1, the configured default size).
func BuildPage(number int, size int, limits PageLimits) (Page, error) {
	if number == 0 {
		number = 1
	}

	if size == 0 {
		size = limits.DefaultSize
	}

	if number < 1 {
		return Page{}, ErrPageNumberOutOfRange
	}

	if size < 1 || size > limits.MaxSize {
		return Page{}, ErrPageSizeOutOfRange
	}

	return Page{Number: number, Size: size}, nil
}

// Offset returns the number of rows to skip: (page-1) * size.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageCount computes ceil(total/size), 0 when total is 0.
func PageCount(total int, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}

	return (total + size - 1) / size
}

/***** BorrowListFilter *****/

// BorrowListFilter describes one transaction-listing request for the query
// composer. MemberID and BookID are optional narrowing filters; uuid.Nil
// means unset.
type BorrowListFilter struct {
	Status   StatusFilter
	Include  IncludeOption
	SortBy   SortKey
	Order    SortOrder
	Page     Page
	MemberID uuid.UUID
	BookID   uuid.UUID
}

// ExpandBook reports whether result rows must carry the related book,
// either because it was requested or because the listing sorts by book title.
func (f BorrowListFilter) ExpandBook() bool {
	return f.Include.WantsBook() || f.SortBy == SortByBookTitle
}

// ExpandMember reports whether result rows must carry the related member.
func (f BorrowListFilter) ExpandMember() bool {
	return f.Include.WantsMember() || f.SortBy == SortByMemberName
}

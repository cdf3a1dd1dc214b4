package core

import (
	"strings"

	"github.com/google/uuid"
)

// Book represents a title in the catalog together with its copy counters.
// AvailableCopies is mutated exclusively through ReserveCopy and ReleaseCopy
// as a side effect of borrow and return operations.
type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	ISBN            ISBNString
	TotalCopies     int
	AvailableCopies int
}

// BuildBook creates a new Book with all copies available.
func BuildBook(title string, author string, isbn ISBNString, totalCopies int) (Book, error) {
	if strings.TrimSpace(title) == "" {
		return Book{}, ErrBookTitleEmpty
	}

	if strings.TrimSpace(author) == "" {
		return Book{}, ErrBookAuthorEmpty
	}

	if strings.TrimSpace(isbn) == "" {
		return Book{}, ErrBookISBNEmpty
	}

	if totalCopies < 1 {
		return Book{}, ErrTotalCopiesInvalid
	}

	book := Book{
		ID:              uuid.New(),
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}

	return book, nil
}

// LentCopies returns the number of copies currently out with members.
func (b Book) LentCopies() int {
	return b.TotalCopies - b.AvailableCopies
}

// ReserveCopy takes one copy out of the available stock for a borrow.
func (b *Book) ReserveCopy() error {
	if b.AvailableCopies <= 0 {
		return ErrNoCopiesAvailable
	}

	b.AvailableCopies--

	return nil
}

// ReleaseCopy puts one copy back into the available stock after a return.
// The lifecycle engine guarantees it is invoked exactly once per returned
// transaction; the upper bound check is a safety net for that contract.
func (b *Book) ReleaseCopy() error {
	if b.AvailableCopies >= b.TotalCopies {
		return ErrAllCopiesInStock
	}

	b.AvailableCopies++

	return nil
}

// AdjustTotalCopies changes the total stock of a book, keeping the
// availability invariant intact: the new total must cover every copy that is
// currently lent out, and AvailableCopies is recomputed from the difference.
func (b *Book) AdjustTotalCopies(newTotal int) error {
	if newTotal < 1 {
		return ErrTotalCopiesInvalid
	}

	lent := b.LentCopies()
	if newTotal < lent {
		return ErrTotalCopiesBelowLent
	}

	b.TotalCopies = newTotal
	b.AvailableCopies = newTotal - lent

	return nil
}

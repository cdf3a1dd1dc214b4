package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/openshelf/circulation/core"
)

func Test_BuildBook_Success(t *testing.T) {
	// act
	book, err := core.BuildBook("The Go Programming Language", "Donovan, Kernighan", "978-0134190440", 3)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 3, book.AvailableCopies, "a new book should start with all copies available")
	assert.Equal(t, 0, book.LentCopies())
}

func Test_BuildBook_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name        string
		title       string
		author      string
		isbn        string
		totalCopies int
		expectedErr error
	}{
		{"empty title", "  ", "Author", "978-1", 1, core.ErrBookTitleEmpty},
		{"empty author", "Title", "", "978-1", 1, core.ErrBookAuthorEmpty},
		{"empty isbn", "Title", "Author", " ", 1, core.ErrBookISBNEmpty},
		{"zero copies", "Title", "Author", "978-1", 0, core.ErrTotalCopiesInvalid},
		{"negative copies", "Title", "Author", "978-1", -2, core.ErrTotalCopiesInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.BuildBook(tc.title, tc.author, tc.isbn, tc.totalCopies)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Book_ReserveCopy_FailsWhenNoneAvailable(t *testing.T) {
	// arrange
	book, err := core.BuildBook("Title", "Author", "978-1", 1)
	assert.NoError(t, err)

	// act
	assert.NoError(t, book.ReserveCopy())
	reserveErr := book.ReserveCopy()

	// assert
	assert.ErrorIs(t, reserveErr, core.ErrNoCopiesAvailable)
	assert.Equal(t, 0, book.AvailableCopies)
}

func Test_Book_ReleaseCopy_FailsWhenAllCopiesInStock(t *testing.T) {
	// arrange
	book, err := core.BuildBook("Title", "Author", "978-1", 2)
	assert.NoError(t, err)

	// act
	releaseErr := book.ReleaseCopy()

	// assert
	assert.ErrorIs(t, releaseErr, core.ErrAllCopiesInStock)
	assert.Equal(t, 2, book.AvailableCopies)
}

func Test_Book_AdjustTotalCopies(t *testing.T) {
	// arrange
	book, err := core.BuildBook("Title", "Author", "978-1", 5)
	assert.NoError(t, err)
	assert.NoError(t, book.ReserveCopy())
	assert.NoError(t, book.ReserveCopy()) // 2 lent, 3 available

	// act + assert: shrinking keeps the lent copies covered
	assert.NoError(t, book.AdjustTotalCopies(3))
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 1, book.AvailableCopies)
	assert.Equal(t, 2, book.LentCopies())

	// act + assert: dropping below the lent count is rejected
	assert.ErrorIs(t, book.AdjustTotalCopies(1), core.ErrTotalCopiesBelowLent)

	// act + assert: growing adds available copies
	assert.NoError(t, book.AdjustTotalCopies(10))
	assert.Equal(t, 8, book.AvailableCopies)
	assert.Equal(t, 2, book.LentCopies())
}

func Test_Book_AvailabilityInvariant_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		totalCopies := rapid.IntRange(1, 20).Draw(t, "totalCopies")

		book, err := core.BuildBook("Title", "Author", "978-1", totalCopies)
		if err != nil {
			t.Fatalf("building book: %v", err)
		}

		operationCount := rapid.IntRange(0, 50).Draw(t, "operationCount")

		for i := 0; i < operationCount; i++ {
			if rapid.Bool().Draw(t, "reserve") {
				_ = book.ReserveCopy()
			} else {
				_ = book.ReleaseCopy()
			}

			if book.AvailableCopies < 0 || book.AvailableCopies > book.TotalCopies {
				t.Fatalf("availability invariant violated: %d available of %d total",
					book.AvailableCopies, book.TotalCopies)
			}
		}
	})
}

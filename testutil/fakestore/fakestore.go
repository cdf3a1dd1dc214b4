// Package fakestore provides an in-memory implementation of the entity store
// surface for handler tests. It enforces the same uniqueness rules as the
// database schema (ISBN, email, one active transaction per member and book)
// and mirrors the listing semantics of the storage engine, so feature tests
// run without a database.
package fakestore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// FakeStore is a thread-safe in-memory entity store.
type FakeStore struct {
	mu      sync.Mutex
	books   map[uuid.UUID]core.Book
	members map[uuid.UUID]core.Member
	borrows map[uuid.UUID]core.BorrowTransaction
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		books:   make(map[uuid.UUID]core.Book),
		members: make(map[uuid.UUID]core.Member),
		borrows: make(map[uuid.UUID]core.BorrowTransaction),
	}
}

// WithinTransaction runs fn directly; the in-memory store has no transaction
// semantics beyond the per-operation lock.
func (s *FakeStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

/***** books *****/

// InsertBook stores a new book, enforcing ISBN uniqueness.
func (s *FakeStore) InsertBook(_ context.Context, book core.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.books {
		if existing.ISBN == book.ISBN {
			return core.ErrDuplicateISBN
		}
	}

	s.books[book.ID] = book

	return nil
}

// UpdateBook replaces a stored book, enforcing ISBN uniqueness.
func (s *FakeStore) UpdateBook(_ context.Context, book core.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.books[book.ID]; !found {
		return core.ErrBookNotFound
	}

	for _, existing := range s.books {
		if existing.ID != book.ID && existing.ISBN == book.ISBN {
			return core.ErrDuplicateISBN
		}
	}

	s.books[book.ID] = book

	return nil
}

// DeleteBook removes a stored book.
func (s *FakeStore) DeleteBook(_ context.Context, bookID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.books[bookID]; !found {
		return core.ErrBookNotFound
	}

	delete(s.books, bookID)

	return nil
}

// FindBook loads a book by id.
func (s *FakeStore) FindBook(_ context.Context, bookID uuid.UUID) (core.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, found := s.books[bookID]
	if !found {
		return core.Book{}, core.ErrBookNotFound
	}

	return book, nil
}

// FindBookForUpdate behaves like FindBook; there are no row locks in memory.
func (s *FakeStore) FindBookForUpdate(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	return s.FindBook(ctx, bookID)
}

// FindBookByISBN loads a book by its ISBN.
func (s *FakeStore) FindBookByISBN(_ context.Context, isbn core.ISBNString) (core.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.ISBN == isbn {
			return book, nil
		}
	}

	return core.Book{}, core.ErrBookNotFound
}

// ListBooks returns one page of books ordered by title, with an optional
// case-insensitive search over title and author.
func (s *FakeStore) ListBooks(_ context.Context, search string, page core.Page) (entitystore.BookListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	books := make([]core.Book, 0, len(s.books))

	for _, book := range s.books {
		if needle == "" ||
			strings.Contains(strings.ToLower(book.Title), needle) ||
			strings.Contains(strings.ToLower(book.Author), needle) {
			books = append(books, book)
		}
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID.String() < books[j].ID.String()
	})

	total := len(books)

	return entitystore.BookListing{Books: pageOf(books, page), Total: total}, nil
}

/***** members *****/

// InsertMember stores a new member, enforcing email uniqueness.
func (s *FakeStore) InsertMember(_ context.Context, member core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.Email == member.Email {
			return core.ErrDuplicateEmail
		}
	}

	s.members[member.ID] = member

	return nil
}

// DeleteMember removes a stored member.
func (s *FakeStore) DeleteMember(_ context.Context, memberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.members[memberID]; !found {
		return core.ErrMemberNotFound
	}

	delete(s.members, memberID)

	return nil
}

// FindMember loads a member by id.
func (s *FakeStore) FindMember(_ context.Context, memberID uuid.UUID) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, found := s.members[memberID]
	if !found {
		return core.Member{}, core.ErrMemberNotFound
	}

	return member, nil
}

// ListMembers returns one page of members ordered by name.
func (s *FakeStore) ListMembers(_ context.Context, page core.Page) (entitystore.MemberListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]core.Member, 0, len(s.members))
	for _, member := range s.members {
		members = append(members, member)
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID.String() < members[j].ID.String()
	})

	total := len(members)

	return entitystore.MemberListing{Members: pageOf(members, page), Total: total}, nil
}

/***** borrow transactions *****/

// InsertBorrow stores a new transaction, enforcing the single-active-borrow
// rule per member and book.
func (s *FakeStore) InsertBorrow(_ context.Context, transaction core.BorrowTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if transaction.IsActive() {
		for _, existing := range s.borrows {
			if existing.IsActive() &&
				existing.MemberID == transaction.MemberID &&
				existing.BookID == transaction.BookID {
				return core.ErrAlreadyBorrowed
			}
		}
	}

	s.borrows[transaction.ID] = cloneBorrow(transaction)

	return nil
}

// UpdateBorrow replaces a stored transaction.
func (s *FakeStore) UpdateBorrow(_ context.Context, transaction core.BorrowTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.borrows[transaction.ID]; !found {
		return core.ErrBorrowNotFound
	}

	s.borrows[transaction.ID] = cloneBorrow(transaction)

	return nil
}

// DeleteBorrow removes a stored transaction.
func (s *FakeStore) DeleteBorrow(_ context.Context, borrowID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.borrows[borrowID]; !found {
		return core.ErrBorrowNotFound
	}

	delete(s.borrows, borrowID)

	return nil
}

// FindBorrow loads a transaction by id.
func (s *FakeStore) FindBorrow(_ context.Context, borrowID uuid.UUID) (core.BorrowTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, found := s.borrows[borrowID]
	if !found {
		return core.BorrowTransaction{}, core.ErrBorrowNotFound
	}

	return cloneBorrow(transaction), nil
}

// FindActiveBorrow loads the active transaction for a (member, book) pair.
func (s *FakeStore) FindActiveBorrow(_ context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, transaction := range s.borrows {
		if transaction.IsActive() && transaction.MemberID == memberID && transaction.BookID == bookID {
			return cloneBorrow(transaction), nil
		}
	}

	return core.BorrowTransaction{}, core.ErrNoActiveBorrow
}

// FindLatestReturnedBorrow loads the most recently returned transaction for a
// (member, book) pair.
func (s *FakeStore) FindLatestReturnedBorrow(_ context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *core.BorrowTransaction

	for _, transaction := range s.borrows {
		if transaction.IsActive() || transaction.MemberID != memberID || transaction.BookID != bookID {
			continue
		}

		candidate := cloneBorrow(transaction)
		if latest == nil || candidate.ReturnedDate.After(*latest.ReturnedDate) {
			latest = &candidate
		}
	}

	if latest == nil {
		return core.BorrowTransaction{}, core.ErrBorrowNotFound
	}

	return *latest, nil
}

// HasActiveBorrowForBook reports whether any active transaction references the book.
func (s *FakeStore) HasActiveBorrowForBook(_ context.Context, bookID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, transaction := range s.borrows {
		if transaction.IsActive() && transaction.BookID == bookID {
			return true, nil
		}
	}

	return false, nil
}

// HasActiveBorrowForMember reports whether any active transaction references the member.
func (s *FakeStore) HasActiveBorrowForMember(_ context.Context, memberID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, transaction := range s.borrows {
		if transaction.IsActive() && transaction.MemberID == memberID {
			return true, nil
		}
	}

	return false, nil
}

// CountAndListBorrows mirrors the storage engine's listing semantics: filter,
// count before pagination, sort with an id tie-break, paginate, expand.
func (s *FakeStore) CountAndListBorrows(_ context.Context, filter core.BorrowListFilter) (entitystore.BorrowListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]core.BorrowTransaction, 0, len(s.borrows))

	for _, transaction := range s.borrows {
		if filter.Status == core.StatusBorrowed && !transaction.IsActive() {
			continue
		}
		if filter.Status == core.StatusReturned && transaction.IsActive() {
			continue
		}
		if filter.MemberID != uuid.Nil && transaction.MemberID != filter.MemberID {
			continue
		}
		if filter.BookID != uuid.Nil && transaction.BookID != filter.BookID {
			continue
		}

		matching = append(matching, cloneBorrow(transaction))
	}

	total := len(matching)

	s.sortBorrows(matching, filter)

	records := make([]entitystore.BorrowRecord, 0)

	for _, transaction := range pageOf(matching, filter.Page) {
		record := entitystore.BorrowRecord{Transaction: transaction}

		if filter.ExpandBook() {
			if book, found := s.books[transaction.BookID]; found {
				record.Book = &book
			}
		}

		if filter.ExpandMember() {
			if member, found := s.members[transaction.MemberID]; found {
				record.Member = &member
			}
		}

		records = append(records, record)
	}

	return entitystore.BorrowListing{Records: records, Total: total}, nil
}

func (s *FakeStore) sortBorrows(transactions []core.BorrowTransaction, filter core.BorrowListFilter) {
	key := func(t core.BorrowTransaction) string {
		switch filter.SortBy {
		case core.SortByDueDate:
			return t.DueDate.Format("2006-01-02")
		case core.SortByBookTitle:
			return s.books[t.BookID].Title
		case core.SortByMemberName:
			return s.members[t.MemberID].Name
		default:
			return t.BorrowedDate.Format("2006-01-02")
		}
	}

	sort.Slice(transactions, func(i, j int) bool {
		ki, kj := key(transactions[i]), key(transactions[j])
		if ki != kj {
			if filter.Order == core.OrderDesc {
				return ki > kj
			}
			return ki < kj
		}
		return transactions[i].ID.String() < transactions[j].ID.String()
	})
}

func pageOf[T any](items []T, page core.Page) []T {
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}

	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

func cloneBorrow(transaction core.BorrowTransaction) core.BorrowTransaction {
	clone := transaction

	if transaction.ReturnedDate != nil {
		returned := *transaction.ReturnedDate
		clone.ReturnedDate = &returned
	}

	return clone
}

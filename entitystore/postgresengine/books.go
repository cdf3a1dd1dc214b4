package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

func selectBooksStmt() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Select(colID, colTitle, colAuthor, colISBN, colTotalCopies, colAvailableCopies)
}

func bookRecord(book core.Book) goqu.Record {
	return goqu.Record{
		colID:              book.ID.String(),
		colTitle:           book.Title,
		colAuthor:          book.Author,
		colISBN:            book.ISBN,
		colTotalCopies:     book.TotalCopies,
		colAvailableCopies: book.AvailableCopies,
	}
}

// InsertBook persists a new catalog entry. A duplicate ISBN surfaces as
// core.ErrDuplicateISBN.
func (es *EntityStore) InsertBook(ctx context.Context, book core.Book) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(tableBooks).
		Rows(bookRecord(book)).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := es.executeStatement(ctx, sqlQuery)

	return execErr
}

// UpdateBook persists the full state of an existing catalog entry.
func (es *EntityStore) UpdateBook(ctx context.Context, book core.Book) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Update(tableBooks).
		Set(bookRecord(book)).
		Where(goqu.Ex{colID: book.ID.String()}).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := es.executeStatement(ctx, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return core.ErrBookNotFound
	}

	return nil
}

// DeleteBook removes a catalog entry. The deletion guard lives in the feature
// layer; this method only reports whether the row existed.
func (es *EntityStore) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(tableBooks).
		Where(goqu.Ex{colID: bookID.String()}).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := es.executeStatement(ctx, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return core.ErrBookNotFound
	}

	return nil
}

// FindBook loads a catalog entry by id.
func (es *EntityStore) FindBook(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	return es.findOneBook(ctx, selectBooksStmt().Where(goqu.Ex{colID: bookID.String()}))
}

// FindBookForUpdate loads a catalog entry by id and locks its row for the
// remainder of the surrounding unit of work, serializing concurrent mutations
// of the copy counters.
func (es *EntityStore) FindBookForUpdate(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	return es.findOneBook(ctx, selectBooksStmt().Where(goqu.Ex{colID: bookID.String()}).ForUpdate(exp.Wait))
}

// FindBookByISBN loads a catalog entry by its globally unique ISBN.
func (es *EntityStore) FindBookByISBN(ctx context.Context, isbn core.ISBNString) (core.Book, error) {
	return es.findOneBook(ctx, selectBooksStmt().Where(goqu.Ex{colISBN: isbn}))
}

func (es *EntityStore) findOneBook(ctx context.Context, stmt *goqu.SelectDataset) (core.Book, error) {
	var empty core.Book

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return empty, errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return empty, queryErr
	}
	defer es.closeRows(rows)

	if !rows.Next() {
		return empty, core.ErrBookNotFound
	}

	var book core.Book
	scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies)
	if scanErr != nil {
		es.logError(logMsgScanRowFailed, scanErr)
		return empty, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
	}

	return book, nil
}

// findBooksByIDs loads the books referenced by a listing page for expansion.
func (es *EntityStore) findBooksByIDs(ctx context.Context, bookIDs []string) (map[uuid.UUID]core.Book, error) {
	booksByID := make(map[uuid.UUID]core.Book, len(bookIDs))
	if len(bookIDs) == 0 {
		return booksByID, nil
	}

	sqlQuery, _, toSQLErr := selectBooksStmt().Where(goqu.C(colID).In(bookIDs)).ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer es.closeRows(rows)

	for rows.Next() {
		var book core.Book
		scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies)
		if scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)
			return nil, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
		}

		booksByID[book.ID] = book
	}

	return booksByID, nil
}

// ListBooks returns one page of the catalog plus the pre-pagination total.
// A non-empty search term matches title or author, case-insensitively.
func (es *EntityStore) ListBooks(ctx context.Context, search string, page core.Page) (entitystore.BookListing, error) {
	var empty entitystore.BookListing

	whereExpressions := make([]goqu.Expression, 0)
	if search != "" {
		pattern := fmt.Sprintf("%%%s%%", search)
		whereExpressions = append(
			whereExpressions,
			goqu.Or(goqu.C(colTitle).ILike(pattern), goqu.C(colAuthor).ILike(pattern)),
		)
	}

	countQuery, _, countSQLErr := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Select(goqu.COUNT(goqu.Star())).
		Where(whereExpressions...).
		ToSQL()
	if countSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, countSQLErr)
		return empty, errors.Join(entitystore.ErrBuildingQueryFailed, countSQLErr)
	}

	total, countErr := es.queryOneInt(ctx, countQuery)
	if countErr != nil {
		return empty, countErr
	}

	listQuery, _, listSQLErr := selectBooksStmt().
		Where(whereExpressions...).
		Order(goqu.I(colTitle).Asc(), goqu.I(colID).Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())).
		ToSQL()
	if listSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, listSQLErr)
		return empty, errors.Join(entitystore.ErrBuildingQueryFailed, listSQLErr)
	}

	rows, queryErr := es.executeQuery(ctx, listQuery)
	if queryErr != nil {
		return empty, queryErr
	}
	defer es.closeRows(rows)

	books := make([]core.Book, 0)

	for rows.Next() {
		var book core.Book
		scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies)
		if scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)
			return empty, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
		}

		books = append(books, book)
	}

	return entitystore.BookListing{Books: books, Total: total}, nil
}

package postgresengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

func borrowCol(col string) exp.IdentifierExpression {
	return goqu.I(tableBorrows + "." + col)
}

// borrowSortExpressions is the closed dispatch table for the listing sort key;
// adding a sort key is a one-place change here plus the core enum.
var borrowSortExpressions = map[core.SortKey]exp.IdentifierExpression{
	core.SortByBorrowedDate: borrowCol(colBorrowedDate),
	core.SortByDueDate:      borrowCol(colDueDate),
	core.SortByBookTitle:    goqu.I(tableBooks + "." + colTitle),
	core.SortByMemberName:   goqu.I(tableMembers + "." + colName),
}

func borrowBookJoin() exp.JoinCondition {
	return goqu.On(borrowCol(colBookID).Eq(goqu.I(tableBooks + "." + colID)))
}

func borrowMemberJoin() exp.JoinCondition {
	return goqu.On(borrowCol(colMemberID).Eq(goqu.I(tableMembers + "." + colID)))
}

func selectBorrowsStmt() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableBorrows).
		Select(
			borrowCol(colID),
			borrowCol(colMemberID),
			borrowCol(colBookID),
			borrowCol(colBorrowedDate),
			borrowCol(colDueDate),
			borrowCol(colReturnedDate),
		)
}

func borrowRecord(transaction core.BorrowTransaction) goqu.Record {
	record := goqu.Record{
		colID:           transaction.ID.String(),
		colMemberID:     transaction.MemberID.String(),
		colBookID:       transaction.BookID.String(),
		colBorrowedDate: transaction.BorrowedDate,
		colDueDate:      transaction.DueDate,
		colReturnedDate: nil,
	}

	if transaction.ReturnedDate != nil {
		record[colReturnedDate] = *transaction.ReturnedDate
	}

	return record
}

// InsertBorrow persists a new borrow transaction. A violation of the partial
// unique index over active pairs surfaces as core.ErrAlreadyBorrowed.
func (es *EntityStore) InsertBorrow(ctx context.Context, transaction core.BorrowTransaction) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(tableBorrows).
		Rows(borrowRecord(transaction)).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := es.executeStatement(ctx, sqlQuery)

	return execErr
}

// UpdateBorrow persists the full state of an existing borrow transaction.
func (es *EntityStore) UpdateBorrow(ctx context.Context, transaction core.BorrowTransaction) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Update(tableBorrows).
		Set(borrowRecord(transaction)).
		Where(goqu.Ex{colID: transaction.ID.String()}).
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
		return core.ErrBorrowNotFound
	}

	return nil
}

// DeleteBorrow hard-deletes a borrow transaction regardless of its state.
// It deliberately leaves the book's copy counters untouched; this is the
// administrative correction path, not the return path.
func (es *EntityStore) DeleteBorrow(ctx context.Context, borrowID uuid.UUID) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(tableBorrows).
		Where(goqu.Ex{colID: borrowID.String()}).
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
		return core.ErrBorrowNotFound
	}

	return nil
}

// FindBorrow loads a borrow transaction by id.
func (es *EntityStore) FindBorrow(ctx context.Context, borrowID uuid.UUID) (core.BorrowTransaction, error) {
	stmt := selectBorrowsStmt().Where(goqu.Ex{colID: borrowID.String()})

	return es.findOneBorrow(ctx, stmt, core.ErrBorrowNotFound)
}

// FindActiveBorrow loads the active transaction for a (member, book) pair,
// the one with no returned date. At most one exists at any moment.
func (es *EntityStore) FindActiveBorrow(ctx context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error) {
	stmt := selectBorrowsStmt().
		Where(goqu.Ex{
			colMemberID:     memberID.String(),
			colBookID:       bookID.String(),
			colReturnedDate: nil,
		})

	return es.findOneBorrow(ctx, stmt, core.ErrNoActiveBorrow)
}

// FindLatestReturnedBorrow loads the most recently returned transaction for a
// (member, book) pair; the return operation uses it to resolve repeated
// returns idempotently.
func (es *EntityStore) FindLatestReturnedBorrow(ctx context.Context, memberID uuid.UUID, bookID uuid.UUID) (core.BorrowTransaction, error) {
	stmt := selectBorrowsStmt().
		Where(
			goqu.Ex{
				colMemberID: memberID.String(),
				colBookID:   bookID.String(),
			},
			borrowCol(colReturnedDate).IsNotNull(),
		).
		Order(borrowCol(colReturnedDate).Desc(), borrowCol(colBorrowedDate).Desc()).
		Limit(1)

	return es.findOneBorrow(ctx, stmt, core.ErrBorrowNotFound)
}

func (es *EntityStore) findOneBorrow(ctx context.Context, stmt *goqu.SelectDataset, notFound error) (core.BorrowTransaction, error) {
	var empty core.BorrowTransaction

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
		return empty, notFound
	}

	transaction, scanErr := es.scanBorrowRow(rows.Scan)
	if scanErr != nil {
		return empty, scanErr
	}

	return transaction, nil
}

func (es *EntityStore) scanBorrowRow(scan func(dest ...any) error) (core.BorrowTransaction, error) {
	var empty core.BorrowTransaction
	var transaction core.BorrowTransaction
	var returnedDate sql.NullTime

	scanErr := scan(
		&transaction.ID,
		&transaction.MemberID,
		&transaction.BookID,
		&transaction.BorrowedDate,
		&transaction.DueDate,
		&returnedDate,
	)
	if scanErr != nil {
		es.logError(logMsgScanRowFailed, scanErr)
		return empty, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
	}

	if returnedDate.Valid {
		returned := core.ToDate(returnedDate.Time)
		transaction.ReturnedDate = &returned
	}

	transaction.BorrowedDate = core.ToDate(transaction.BorrowedDate)
	transaction.DueDate = core.ToDate(transaction.DueDate)

	return transaction, nil
}

// HasActiveBorrowForBook probes with limit 1 whether any active transaction
// references the book; the deletion guard needs existence, not a count.
func (es *EntityStore) HasActiveBorrowForBook(ctx context.Context, bookID uuid.UUID) (bool, error) {
	return es.hasActiveBorrow(ctx, goqu.Ex{colBookID: bookID.String(), colReturnedDate: nil})
}

// HasActiveBorrowForMember probes with limit 1 whether any active transaction
// references the member.
func (es *EntityStore) HasActiveBorrowForMember(ctx context.Context, memberID uuid.UUID) (bool, error) {
	return es.hasActiveBorrow(ctx, goqu.Ex{colMemberID: memberID.String(), colReturnedDate: nil})
}

func (es *EntityStore) hasActiveBorrow(ctx context.Context, where goqu.Ex) (bool, error) {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(tableBorrows).
		Select(goqu.L("1")).
		Where(where).
		Limit(1).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return false, errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return false, queryErr
	}
	defer es.closeRows(rows)

	return rows.Next(), nil
}

// CountAndListBorrows composes the transaction listing: status and reference
// predicates, total before pagination, sort-key dispatch with a join when
// sorting by a related entity, stable tie-break on the transaction id,
// offset pagination, and relation expansion via secondary lookups.
func (es *EntityStore) CountAndListBorrows(ctx context.Context, filter core.BorrowListFilter) (entitystore.BorrowListing, error) {
	var empty entitystore.BorrowListing

	whereExpressions := borrowListWhere(filter)

	countQuery, _, countSQLErr := goqu.Dialect(dialectPostgres).
		From(tableBorrows).
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

	transactions, listErr := es.listBorrowPage(ctx, filter, whereExpressions)
	if listErr != nil {
		return empty, listErr
	}

	records, expandErr := es.expandBorrowRelations(ctx, filter, transactions)
	if expandErr != nil {
		return empty, expandErr
	}

	es.logOperation(logMsgListingCompleted, logAttrRecordCount, len(records), logAttrTotal, total)

	return entitystore.BorrowListing{Records: records, Total: total}, nil
}

func borrowListWhere(filter core.BorrowListFilter) []goqu.Expression {
	whereExpressions := make([]goqu.Expression, 0)

	switch filter.Status {
	case core.StatusBorrowed:
		whereExpressions = append(whereExpressions, borrowCol(colReturnedDate).IsNull())
	case core.StatusReturned:
		whereExpressions = append(whereExpressions, borrowCol(colReturnedDate).IsNotNull())
	case core.StatusAll:
		// no predicate
	}

	if filter.MemberID != uuid.Nil {
		whereExpressions = append(whereExpressions, borrowCol(colMemberID).Eq(filter.MemberID.String()))
	}

	if filter.BookID != uuid.Nil {
		whereExpressions = append(whereExpressions, borrowCol(colBookID).Eq(filter.BookID.String()))
	}

	return whereExpressions
}

func (es *EntityStore) listBorrowPage(
	ctx context.Context,
	filter core.BorrowListFilter,
	whereExpressions []goqu.Expression,
) ([]core.BorrowTransaction, error) {

	stmt := selectBorrowsStmt().Where(whereExpressions...)

	switch filter.SortBy {
	case core.SortByBookTitle:
		stmt = stmt.Join(goqu.T(tableBooks), borrowBookJoin())
	case core.SortByMemberName:
		stmt = stmt.Join(goqu.T(tableMembers), borrowMemberJoin())
	case core.SortByBorrowedDate, core.SortByDueDate:
		// transaction's own field, no join
	}

	sortExpression := borrowSortExpressions[filter.SortBy]

	orderedExpression := sortExpression.Asc()
	if filter.Order == core.OrderDesc {
		orderedExpression = sortExpression.Desc()
	}

	sqlQuery, _, toSQLErr := stmt.
		Order(orderedExpression, borrowCol(colID).Asc()).
		Limit(uint(filter.Page.Size)).
		Offset(uint(filter.Page.Offset())).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer es.closeRows(rows)

	transactions := make([]core.BorrowTransaction, 0)

	for rows.Next() {
		transaction, scanErr := es.scanBorrowRow(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}

		transactions = append(transactions, transaction)
	}

	return transactions, nil
}

// expandBorrowRelations attaches the related book and member to each record
// according to the expand rules: whatever include requests, plus the entity
// the listing sorts by.
func (es *EntityStore) expandBorrowRelations(
	ctx context.Context,
	filter core.BorrowListFilter,
	transactions []core.BorrowTransaction,
) ([]entitystore.BorrowRecord, error) {

	booksByID := make(map[uuid.UUID]core.Book)
	membersByID := make(map[uuid.UUID]core.Member)

	if filter.ExpandBook() {
		var lookupErr error
		if booksByID, lookupErr = es.findBooksByIDs(ctx, collectBookIDs(transactions)); lookupErr != nil {
			return nil, lookupErr
		}
	}

	if filter.ExpandMember() {
		var lookupErr error
		if membersByID, lookupErr = es.findMembersByIDs(ctx, collectMemberIDs(transactions)); lookupErr != nil {
			return nil, lookupErr
		}
	}

	records := make([]entitystore.BorrowRecord, 0, len(transactions))

	for _, transaction := range transactions {
		record := entitystore.BorrowRecord{Transaction: transaction}

		if book, found := booksByID[transaction.BookID]; found {
			record.Book = &book
		}

		if member, found := membersByID[transaction.MemberID]; found {
			record.Member = &member
		}

		records = append(records, record)
	}

	return records, nil
}

func collectBookIDs(transactions []core.BorrowTransaction) []string {
	seen := make(map[uuid.UUID]bool, len(transactions))
	bookIDs := make([]string, 0, len(transactions))

	for _, transaction := range transactions {
		if !seen[transaction.BookID] {
			seen[transaction.BookID] = true
			bookIDs = append(bookIDs, transaction.BookID.String())
		}
	}

	return bookIDs
}

func collectMemberIDs(transactions []core.BorrowTransaction) []string {
	seen := make(map[uuid.UUID]bool, len(transactions))
	memberIDs := make([]string, 0, len(transactions))

	for _, transaction := range transactions {
		if !seen[transaction.MemberID] {
			seen[transaction.MemberID] = true
			memberIDs = append(memberIDs, transaction.MemberID.String())
		}
	}

	return memberIDs
}

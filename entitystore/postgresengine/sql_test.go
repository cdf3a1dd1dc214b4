package postgresengine

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation/core"
)

func buildListSQL(t *testing.T, filter core.BorrowListFilter) string {
	t.Helper()

	stmt := selectBorrowsStmt().Where(borrowListWhere(filter)...)

	switch filter.SortBy {
	case core.SortByBookTitle:
		stmt = stmt.Join(goqu.T(tableBooks), borrowBookJoin())
	case core.SortByMemberName:
		stmt = stmt.Join(goqu.T(tableMembers), borrowMemberJoin())
	case core.SortByBorrowedDate, core.SortByDueDate:
	}

	sortExpression := borrowSortExpressions[filter.SortBy]
	ordered := sortExpression.Asc()
	if filter.Order == core.OrderDesc {
		ordered = sortExpression.Desc()
	}

	sqlQuery, _, err := stmt.
		Order(ordered, borrowCol(colID).Asc()).
		Limit(uint(filter.Page.Size)).
		Offset(uint(filter.Page.Offset())).
		ToSQL()
	assert.NoError(t, err)

	return sqlQuery
}

func Test_BorrowListing_SQLComposition(t *testing.T) {
	page := core.Page{Number: 2, Size: 10}

	// status predicate and pagination
	sqlQuery := buildListSQL(t, core.BorrowListFilter{
		Status: core.StatusBorrowed,
		SortBy: core.SortByBorrowedDate,
		Order:  core.OrderDesc,
		Page:   page,
	})
	assert.Contains(t, sqlQuery, `"returned_date" IS NULL`)
	assert.Contains(t, sqlQuery, `"borrow_transactions"."borrowed_date" DESC`)
	assert.Contains(t, sqlQuery, `"borrow_transactions"."id" ASC`, "ordering needs a stable tie-break")
	assert.Contains(t, sqlQuery, "LIMIT 10")
	assert.Contains(t, sqlQuery, "OFFSET 10")
	assert.NotContains(t, sqlQuery, "JOIN", "sorting by an own column must not join")

	// sorting by book title joins the books table
	sqlQuery = buildListSQL(t, core.BorrowListFilter{
		Status: core.StatusAll,
		SortBy: core.SortByBookTitle,
		Order:  core.OrderAsc,
		Page:   page,
	})
	assert.Contains(t, sqlQuery, `INNER JOIN "books"`)
	assert.Contains(t, sqlQuery, `"books"."title" ASC`)

	// sorting by member name joins the members table
	sqlQuery = buildListSQL(t, core.BorrowListFilter{
		Status: core.StatusReturned,
		SortBy: core.SortByMemberName,
		Order:  core.OrderDesc,
		Page:   page,
	})
	assert.Contains(t, sqlQuery, `INNER JOIN "members"`)
	assert.Contains(t, sqlQuery, `"returned_date" IS NOT NULL`)

	// optional reference filters are rendered as predicates
	memberID := uuid.New()
	bookID := uuid.New()
	sqlQuery = buildListSQL(t, core.BorrowListFilter{
		Status:   core.StatusAll,
		SortBy:   core.SortByDueDate,
		Order:    core.OrderAsc,
		Page:     page,
		MemberID: memberID,
		BookID:   bookID,
	})
	assert.Contains(t, sqlQuery, memberID.String())
	assert.Contains(t, sqlQuery, bookID.String())
}

func Test_FindBookForUpdate_LocksTheRow(t *testing.T) {
	stmt := selectBooksStmt().Where(goqu.Ex{colID: uuid.New().String()})

	sqlQuery, _, err := stmt.ToSQL()
	assert.NoError(t, err)
	assert.NotContains(t, sqlQuery, "FOR UPDATE")

	lockedQuery, _, err := stmt.ForUpdate(exp.Wait).ToSQL()
	assert.NoError(t, err)
	assert.Contains(t, lockedQuery, "FOR UPDATE")
}

func Test_ActiveBorrowProbe_UsesLimitOne(t *testing.T) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(tableBorrows).
		Select(goqu.L("1")).
		Where(goqu.Ex{colBookID: uuid.New().String(), colReturnedDate: nil}).
		Limit(1).
		ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, "LIMIT 1")
	assert.Contains(t, sqlQuery, `"returned_date" IS NULL`)
}

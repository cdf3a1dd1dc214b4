package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

func selectMembersStmt() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableMembers).
		Select(colID, colName, colEmail)
}

// InsertMember persists a new member. A duplicate email surfaces as
// core.ErrDuplicateEmail.
func (es *EntityStore) InsertMember(ctx context.Context, member core.Member) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(tableMembers).
		Rows(goqu.Record{
			colID:    member.ID.String(),
			colName:  member.Name,
			colEmail: member.Email,
		}).
		ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(entitystore.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := es.executeStatement(ctx, sqlQuery)

	return execErr
}

// DeleteMember removes a member. The deletion guard lives in the feature
// layer; this method only reports whether the row existed.
func (es *EntityStore) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(tableMembers).
		Where(goqu.Ex{colID: memberID.String()}).
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
		return core.ErrMemberNotFound
	}

	return nil
}

// FindMember loads a member by id.
func (es *EntityStore) FindMember(ctx context.Context, memberID uuid.UUID) (core.Member, error) {
	var empty core.Member

	sqlQuery, _, toSQLErr := selectMembersStmt().Where(goqu.Ex{colID: memberID.String()}).ToSQL()
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
		return empty, core.ErrMemberNotFound
	}

	var member core.Member
	if scanErr := rows.Scan(&member.ID, &member.Name, &member.Email); scanErr != nil {
		es.logError(logMsgScanRowFailed, scanErr)
		return empty, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
	}

	return member, nil
}

// ListMembers returns one page of members plus the pre-pagination total.
func (es *EntityStore) ListMembers(ctx context.Context, page core.Page) (entitystore.MemberListing, error) {
	var empty entitystore.MemberListing

	countQuery, _, countSQLErr := goqu.Dialect(dialectPostgres).
		From(tableMembers).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if countSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, countSQLErr)
		return empty, errors.Join(entitystore.ErrBuildingQueryFailed, countSQLErr)
	}

	total, countErr := es.queryOneInt(ctx, countQuery)
	if countErr != nil {
		return empty, countErr
	}

	listQuery, _, listSQLErr := selectMembersStmt().
		Order(goqu.I(colName).Asc(), goqu.I(colID).Asc()).
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

	members := make([]core.Member, 0)

	for rows.Next() {
		var member core.Member
		if scanErr := rows.Scan(&member.ID, &member.Name, &member.Email); scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)
			return empty, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
		}

		members = append(members, member)
	}

	return entitystore.MemberListing{Members: members, Total: total}, nil
}

// findMembersByIDs loads the members referenced by a listing page for expansion.
func (es *EntityStore) findMembersByIDs(ctx context.Context, memberIDs []string) (map[uuid.UUID]core.Member, error) {
	membersByID := make(map[uuid.UUID]core.Member, len(memberIDs))
	if len(memberIDs) == 0 {
		return membersByID, nil
	}

	sqlQuery, _, toSQLErr := selectMembersStmt().Where(goqu.C(colID).In(memberIDs)).ToSQL()
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
		var member core.Member
		if scanErr := rows.Scan(&member.ID, &member.Name, &member.Email); scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)
			return nil, errors.Join(entitystore.ErrScanningDBRowFailed, scanErr)
		}

		membersByID[member.ID] = member
	}

	return membersByID, nil
}

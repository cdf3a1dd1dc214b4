package shell

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/features/command/addbook"
	"github.com/openshelf/circulation/features/command/borrowbookcopy"
	"github.com/openshelf/circulation/features/command/registermember"
	"github.com/openshelf/circulation/features/command/removebook"
	"github.com/openshelf/circulation/features/command/removeborrowrecord"
	"github.com/openshelf/circulation/features/command/removemember"
	"github.com/openshelf/circulation/features/command/returnbookcopy"
	"github.com/openshelf/circulation/features/command/updatebook"
	"github.com/openshelf/circulation/features/query/listbooks"
	"github.com/openshelf/circulation/features/query/listborrows"
	"github.com/openshelf/circulation/features/query/listmembers"
)

var json = jsoniter.ConfigFastest

// EntityStore is the union of the store surfaces the feature handlers need.
// The postgres engine and the in-memory fake both satisfy it.
type EntityStore interface {
	borrowbookcopy.EntityStore
	returnbookcopy.EntityStore
	removeborrowrecord.EntityStore
	addbook.EntityStore
	updatebook.EntityStore
	removebook.EntityStore
	registermember.EntityStore
	removemember.EntityStore
	listborrows.EntityStore
	listbooks.EntityStore
	listmembers.EntityStore
}

// HTTPHandler translates HTTP requests into feature commands and queries and
// renders their outcomes as JSON.
type HTTPHandler struct {
	logger *slog.Logger
	limits core.PageLimits

	borrowBook     borrowbookcopy.CommandHandler
	returnBook     returnbookcopy.CommandHandler
	removeBorrow   removeborrowrecord.CommandHandler
	addBook        addbook.CommandHandler
	updateBook     updatebook.CommandHandler
	removeBook     removebook.CommandHandler
	registerMember registermember.CommandHandler
	removeMember   removemember.CommandHandler
	listBorrows    listborrows.QueryHandler
	listBooks      listbooks.QueryHandler
	listMembers    listmembers.QueryHandler
}

// NewHTTPHandler wires all feature handlers onto the given store.
func NewHTTPHandler(store EntityStore, logger *slog.Logger, cfg Config) *HTTPHandler {
	return &HTTPHandler{
		logger:         logger,
		limits:         cfg.PageLimits,
		borrowBook:     borrowbookcopy.NewCommandHandler(store, borrowbookcopy.WithLoanPeriod(cfg.LoanPeriodDays)),
		returnBook:     returnbookcopy.NewCommandHandler(store),
		removeBorrow:   removeborrowrecord.NewCommandHandler(store),
		addBook:        addbook.NewCommandHandler(store),
		updateBook:     updatebook.NewCommandHandler(store),
		removeBook:     removebook.NewCommandHandler(store),
		registerMember: registermember.NewCommandHandler(store),
		removeMember:   removemember.NewCommandHandler(store),
		listBorrows:    listborrows.NewQueryHandler(store),
		listBooks:      listbooks.NewQueryHandler(store),
		listMembers:    listmembers.NewQueryHandler(store),
	}
}

/***** borrow transactions *****/

func (h *HTTPHandler) handleBorrowBook(w http.ResponseWriter, r *http.Request) {
	var request borrowRequest
	if !h.decodeBody(w, r, &request) {
		return
	}

	memberID, bookID, ok := h.parsePairIDs(w, request.MemberID, request.BookID)
	if !ok {
		return
	}

	borrowedDate, err := parseOptionalDate(request.BorrowedDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "borrowed_date must be formatted as YYYY-MM-DD")
		return
	}

	dueDate, err := parseOptionalDate(request.DueDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "due_date must be formatted as YYYY-MM-DD")
		return
	}

	command := borrowbookcopy.BuildCommand(memberID, bookID, borrowedDate, dueDate)

	transaction, err := h.borrowBook.Handle(r.Context(), command)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, borrowResponseFrom(transaction))
}

func (h *HTTPHandler) handleReturnBook(w http.ResponseWriter, r *http.Request) {
	var request returnRequest
	if !h.decodeBody(w, r, &request) {
		return
	}

	memberID, bookID, ok := h.parsePairIDs(w, request.MemberID, request.BookID)
	if !ok {
		return
	}

	returnedDate, err := parseOptionalDate(request.ReturnedDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "returned_date must be formatted as YYYY-MM-DD")
		return
	}

	command := returnbookcopy.BuildCommand(memberID, bookID, returnedDate)

	transaction, err := h.returnBook.Handle(r.Context(), command)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, borrowResponseFrom(transaction))
}

func (h *HTTPHandler) handleListBorrows(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parseListBorrowsParams(w, r)
	if !ok {
		return
	}

	query, err := listborrows.BuildQuery(params, h.limits)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.renderBorrowListing(w, r, query)
}

func (h *HTTPHandler) handleListActiveBorrows(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parseListBorrowsParams(w, r)
	if !ok {
		return
	}

	query, err := listborrows.BuildActiveQuery(params, h.limits)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.renderBorrowListing(w, r, query)
}

func (h *HTTPHandler) renderBorrowListing(w http.ResponseWriter, r *http.Request, query listborrows.Query) {
	result, err := h.listBorrows.Handle(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, paginatedResponse{
		Items: borrowRecordResponsesFrom(result.Records),
		Total: result.Total,
		Page:  result.Page,
		Size:  result.Size,
		Pages: result.Pages,
	})
}

func (h *HTTPHandler) handleRemoveBorrow(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := h.parsePathID(w, r, "borrowID")
	if !ok {
		return
	}

	if err := h.removeBorrow.Handle(r.Context(), removeborrowrecord.BuildCommand(borrowID)); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/***** books *****/

func (h *HTTPHandler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var request addBookRequest
	if !h.decodeBody(w, r, &request) {
		return
	}

	command := addbook.BuildCommand(request.Title, request.Author, request.ISBN, request.TotalCopies)

	book, err := h.addBook.Handle(r.Context(), command)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, bookResponseFrom(book))
}

func (h *HTTPHandler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := h.parsePathID(w, r, "bookID")
	if !ok {
		return
	}

	var request updateBookRequest
	if !h.decodeBody(w, r, &request) {
		return
	}

	command := updatebook.BuildCommand(bookID, request.Title, request.Author, request.ISBN, request.TotalCopies)

	book, err := h.updateBook.Handle(r.Context(), command)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bookResponseFrom(book))
}

func (h *HTTPHandler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := h.parsePathID(w, r, "bookID")
	if !ok {
		return
	}

	if err := h.removeBook.Handle(r.Context(), removebook.BuildCommand(bookID)); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize, ok := h.parsePagination(w, r)
	if !ok {
		return
	}

	query, err := listbooks.BuildQuery(r.URL.Query().Get("search"), pageNumber, pageSize, h.limits)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result, err := h.listBooks.Handle(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, paginatedResponse{
		Items: bookResponsesFrom(result.Books),
		Total: result.Total,
		Page:  result.Page,
		Size:  result.Size,
		Pages: result.Pages,
	})
}

/***** members *****/

func (h *HTTPHandler) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var request registerMemberRequest
	if !h.decodeBody(w, r, &request) {
		return
	}

	member, err := h.registerMember.Handle(r.Context(), registermember.BuildCommand(request.Name, request.Email))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, memberResponseFrom(member))
}

func (h *HTTPHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.parsePathID(w, r, "memberID")
	if !ok {
		return
	}

	if err := h.removeMember.Handle(r.Context(), removemember.BuildCommand(memberID)); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize, ok := h.parsePagination(w, r)
	if !ok {
		return
	}

	query, err := listmembers.BuildQuery(pageNumber, pageSize, h.limits)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result, err := h.listMembers.Handle(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, paginatedResponse{
		Items: memberResponsesFrom(result.Members),
		Total: result.Total,
		Page:  result.Page,
		Size:  result.Size,
		Pages: result.Pages,
	})
}

/***** request helpers *****/

func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		h.writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return false
	}

	return true
}

func (h *HTTPHandler) parsePairIDs(w http.ResponseWriter, rawMemberID string, rawBookID string) (uuid.UUID, uuid.UUID, bool) {
	memberID, err := uuid.Parse(rawMemberID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "member_id must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	bookID, err := uuid.Parse(rawBookID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "book_id must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	return memberID, bookID, true
}

func (h *HTTPHandler) parsePathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "path id must be a valid UUID")
		return uuid.Nil, false
	}

	return id, true
}

func (h *HTTPHandler) parsePagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	pageNumber, ok := h.parseIntParam(w, r, "page")
	if !ok {
		return 0, 0, false
	}

	pageSize, ok := h.parseIntParam(w, r, "size")
	if !ok {
		return 0, 0, false
	}

	return pageNumber, pageSize, true
}

func (h *HTTPHandler) parseIntParam(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, param+" must be an integer")
		return 0, false
	}

	return value, true
}

func (h *HTTPHandler) parseListBorrowsParams(w http.ResponseWriter, r *http.Request) (listborrows.Params, bool) {
	pageNumber, pageSize, ok := h.parsePagination(w, r)
	if !ok {
		return listborrows.Params{}, false
	}

	params := listborrows.Params{
		Status:  r.URL.Query().Get("status"),
		Include: r.URL.Query().Get("include"),
		SortBy:  r.URL.Query().Get("sort_by"),
		Order:   r.URL.Query().Get("order"),
		Page:    pageNumber,
		Size:    pageSize,
	}

	if raw := r.URL.Query().Get("member_id"); raw != "" {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "member_id must be a valid UUID")
			return listborrows.Params{}, false
		}
		params.MemberID = memberID
	}

	if raw := r.URL.Query().Get("book_id"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "book_id must be a valid UUID")
			return listborrows.Params{}, false
		}
		params.BookID = bookID
	}

	return params, true
}

/***** response helpers *****/

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response body", "error", err.Error())
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, errorResponse{Detail: detail})
}

// writeDomainError maps a feature-layer error onto an HTTP status via its
// error kind. Unclassified errors are infrastructure failures and must not
// leak internals to the client.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch core.KindOf(err) {
	case core.KindNotFound:
		h.writeError(w, http.StatusNotFound, err.Error())
	case core.KindConflict:
		h.writeError(w, http.StatusConflict, err.Error())
	case core.KindInvalidRequest:
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", "error", err.Error())
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

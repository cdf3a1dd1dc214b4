package shell

import (
	"time"

	"github.com/openshelf/circulation/core"
	"github.com/openshelf/circulation/entitystore"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

type errorResponse struct {
	Detail string `json:"detail"`
}

type paginatedResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

/***** books *****/

type bookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

func bookResponseFrom(book core.Book) bookResponse {
	return bookResponse{
		ID:              book.ID.String(),
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
	}
}

func bookResponsesFrom(books []core.Book) []bookResponse {
	responses := make([]bookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, bookResponseFrom(book))
	}

	return responses
}

type addBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	ISBN        *string `json:"isbn"`
	TotalCopies *int    `json:"total_copies"`
}

/***** members *****/

type memberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func memberResponseFrom(member core.Member) memberResponse {
	return memberResponse{
		ID:    member.ID.String(),
		Name:  member.Name,
		Email: member.Email,
	}
}

func memberResponsesFrom(members []core.Member) []memberResponse {
	responses := make([]memberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, memberResponseFrom(member))
	}

	return responses
}

type registerMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

/***** borrow transactions *****/

type borrowResponse struct {
	ID           string          `json:"id"`
	MemberID     string          `json:"member_id"`
	BookID       string          `json:"book_id"`
	BorrowedDate string          `json:"borrowed_date"`
	DueDate      string          `json:"due_date"`
	ReturnedDate *string         `json:"returned_date"`
	Book         *bookResponse   `json:"book,omitempty"`
	Member       *memberResponse `json:"member,omitempty"`
}

func borrowResponseFrom(transaction core.BorrowTransaction) borrowResponse {
	response := borrowResponse{
		ID:           transaction.ID.String(),
		MemberID:     transaction.MemberID.String(),
		BookID:       transaction.BookID.String(),
		BorrowedDate: transaction.BorrowedDate.Format(dateLayout),
		DueDate:      transaction.DueDate.Format(dateLayout),
	}

	if transaction.ReturnedDate != nil {
		returned := transaction.ReturnedDate.Format(dateLayout)
		response.ReturnedDate = &returned
	}

	return response
}

func borrowRecordResponsesFrom(records []entitystore.BorrowRecord) []borrowResponse {
	responses := make([]borrowResponse, 0, len(records))

	for _, record := range records {
		response := borrowResponseFrom(record.Transaction)

		if record.Book != nil {
			book := bookResponseFrom(*record.Book)
			response.Book = &book
		}

		if record.Member != nil {
			member := memberResponseFrom(*record.Member)
			response.Member = &member
		}

		responses = append(responses, response)
	}

	return responses
}

type borrowRequest struct {
	MemberID     string `json:"member_id"`
	BookID       string `json:"book_id"`
	BorrowedDate string `json:"borrowed_date"`
	DueDate      string `json:"due_date"`
}

type returnRequest struct {
	MemberID     string `json:"member_id"`
	BookID       string `json:"book_id"`
	ReturnedDate string `json:"returned_date"`
}

// parseOptionalDate parses a wire date; an empty string yields the zero time,
// which the core treats as "use the default".
func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	return time.Parse(dateLayout, value)
}

package response

import (
	"time"

	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BorrowerResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type LoanResponse struct {
	ID           uuid.UUID           `json:"id"`
	BookID       uuid.UUID           `json:"bookId"`
	UserID       uuid.UUID           `json:"userId"`
	BorrowedAt   time.Time           `json:"borrowedAt"`
	DueDate      time.Time           `json:"dueDate"`
	ReturnedAt   *time.Time          `json:"returnedAt,omitempty"`
	Status       string              `json:"status"`
	Notes        *string             `json:"notes,omitempty"`
	ReturnedLate bool                `json:"returnedLate"`
	BookSummary  BookSummaryResponse `json:"book"`
	Borrower     BorrowerResponse    `json:"user"`
}

func FromLoanView(v *queries.LoanView) *LoanResponse {
	res := &LoanResponse{}
	_ = copier.Copy(res, v)
	_ = copier.Copy(&res.BookSummary, &v.Book)
	_ = copier.Copy(&res.Borrower, &v.User)
	return res
}

type SweepResponse struct {
	Updated int64 `json:"updated"`
}

package request

import (
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	BookID  uuid.UUID  `json:"bookId" binding:"required"`
	DueDate *time.Time `json:"dueDate"`
	Notes   *string    `json:"notes"`
}

// ToCommand always checks out for the caller.
func (r *CheckoutRequest) ToCommand(userID uuid.UUID) commands.CheckoutRequest {
	return commands.CheckoutRequest{
		BookID:  r.BookID,
		UserID:  userID,
		DueDate: r.DueDate,
		Notes:   r.Notes,
	}
}

type ListLoansQuery struct {
	PageQuery
	Status string `form:"status"`
	UserID string `form:"userId"`
}

func (q ListLoansQuery) ParseStatus() (*loan.Status, error) {
	if q.Status == "" {
		return nil, nil
	}
	status, err := loan.ParseStatus(q.Status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (q ListLoansQuery) ToFilter() (queries.LoanFilter, error) {
	status, err := q.ParseStatus()
	if err != nil {
		return queries.LoanFilter{}, err
	}
	filter := queries.LoanFilter{Status: status}
	if q.UserID != "" {
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return queries.LoanFilter{}, err
		}
		filter.UserID = &id
	}
	return filter, nil
}

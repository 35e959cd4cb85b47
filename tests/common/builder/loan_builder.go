//go:build unit || e2e

package builder

import (
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/infra/dbq"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LoanBuilder struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	BorrowedAt time.Time
	DueDate    time.Time
	ReturnedAt *time.Time
	Status     loan.Status
	Notes      *string
}

func NewLoanBuilder() *LoanBuilder {
	borrowed := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	return &LoanBuilder{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		UserID:     uuid.New(),
		BorrowedAt: borrowed,
		DueDate:    borrowed.Add(loan.DefaultPeriod),
		Status:     loan.StatusActive,
	}
}

func (l *LoanBuilder) With(mutate func(*LoanBuilder)) *LoanBuilder {
	mutate(l)
	return l
}

func (l *LoanBuilder) ForBook(bookID uuid.UUID) *LoanBuilder {
	l.BookID = bookID
	return l
}

func (l *LoanBuilder) ForUser(userID uuid.UUID) *LoanBuilder {
	l.UserID = userID
	return l
}

func (l *LoanBuilder) AsOverdue() *LoanBuilder {
	l.Status = loan.StatusOverdue
	return l
}

func (l *LoanBuilder) AsReturned(at time.Time) *LoanBuilder {
	l.Status = loan.StatusReturned
	l.ReturnedAt = &at
	return l
}

// Build methods
func (l *LoanBuilder) BuildDomain() *loan.Loan {
	return loan.ReconstructLoan(l.ID, l.BookID, l.UserID, l.BorrowedAt, l.DueDate, l.ReturnedAt, l.Status, l.Notes)
}

func (l *LoanBuilder) BuildDetailRow() dbq.LoanDetailRow {
	var returnedAt pgtype.Timestamptz
	if l.ReturnedAt != nil {
		returnedAt = pgtype.Timestamptz{Time: *l.ReturnedAt, Valid: true}
	}
	return dbq.LoanDetailRow{
		Loan: dbq.Loan{
			ID:         l.ID,
			BookID:     l.BookID,
			UserID:     l.UserID,
			BorrowedAt: pgtype.Timestamptz{Time: l.BorrowedAt, Valid: true},
			DueDate:    pgtype.Timestamptz{Time: l.DueDate, Valid: true},
			ReturnedAt: returnedAt,
			Status:     l.Status.String(),
			CreatedAt:  pgtype.Timestamptz{Time: l.BorrowedAt, Valid: true},
			UpdatedAt:  pgtype.Timestamptz{Time: l.BorrowedAt, Valid: true},
		},
		BookTitle:  "Clean Code",
		BookAuthor: "Robert C. Martin",
		UserName:   "Test Member",
		UserEmail:  "test@example.com",
	}
}

func (l *LoanBuilder) BuildView() *queries.LoanView {
	return &queries.LoanView{
		ID:           l.ID,
		BookID:       l.BookID,
		UserID:       l.UserID,
		BorrowedAt:   l.BorrowedAt,
		DueDate:      l.DueDate,
		ReturnedAt:   l.ReturnedAt,
		Status:       l.Status.String(),
		Notes:        l.Notes,
		ReturnedLate: l.ReturnedAt != nil && l.ReturnedAt.After(l.DueDate),
		Book:         queries.BookSummaryView{ID: l.BookID, Title: "Clean Code", Author: "Robert C. Martin"},
		User:         queries.BorrowerView{ID: l.UserID, Name: "Test Member", Email: "test@example.com"},
	}
}

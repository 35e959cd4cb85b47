package converter

import (
	"library-api/internal/domain/loan"
	"library-api/internal/infra/dbq"
	"library-api/internal/pkg/pgconv"
)

func LoanFromRow(row dbq.Loan) *loan.Loan {
	return loan.ReconstructLoan(
		row.ID,
		row.BookID,
		row.UserID,
		pgconv.TimeFromPgtype(row.BorrowedAt),
		pgconv.TimeFromPgtype(row.DueDate),
		pgconv.TimePtrFromPgtype(row.ReturnedAt),
		loan.Status(row.Status),
		pgconv.StringPtrFromPgtype(row.Notes),
	)
}

func LoanToCreateParams(l *loan.Loan) dbq.CreateLoanParams {
	return dbq.CreateLoanParams{
		ID:         l.ID(),
		BookID:     l.BookID(),
		UserID:     l.UserID(),
		BorrowedAt: pgconv.TimeToPgtype(l.BorrowedAt()),
		DueDate:    pgconv.TimeToPgtype(l.DueDate()),
		Status:     l.Status().String(),
		Notes:      pgconv.StringPtrToPgtype(l.Notes()),
	}
}

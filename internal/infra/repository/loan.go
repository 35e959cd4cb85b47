package repository

import (
	"context"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/infra/repository/converter"
	"library-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LoanWriteQueries interface {
	CreateLoan(ctx context.Context, db dbq.DBTX, arg dbq.CreateLoanParams) (dbq.Loan, error)
	MarkLoanReturned(ctx context.Context, db dbq.DBTX, id uuid.UUID, returnedAt pgtype.Timestamptz) (int64, error)
	MarkOverdueLoans(ctx context.Context, db dbq.DBTX, now pgtype.Timestamptz) (int64, error)
}

type LoanRepository struct {
	queries LoanWriteQueries
}

func NewLoanRepository(queries LoanWriteQueries) *LoanRepository {
	return &LoanRepository{queries: queries}
}

func (r *LoanRepository) Create(ctx context.Context, tx dbq.DBTX, l *loan.Loan) error {
	if _, err := r.queries.CreateLoan(ctx, tx, converter.LoanToCreateParams(l)); err != nil {
		return infra.WrapRepoErr("failed to create loan", err)
	}
	return nil
}

func (r *LoanRepository) MarkReturned(ctx context.Context, tx dbq.DBTX, l *loan.Loan) error {
	if l.ReturnedAt() == nil {
		return infra.WrapRepoErr("loan has no return time", nil, infra.KindCheckViolated)
	}
	n, err := r.queries.MarkLoanReturned(ctx, tx, l.ID(), pgconv.TimeToPgtype(*l.ReturnedAt()))
	if err != nil {
		return infra.WrapRepoErr("failed to mark loan returned", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("no outstanding loan to return", nil, infra.KindNotFound)
	}
	return nil
}

func (r *LoanRepository) MarkOverdue(ctx context.Context, tx dbq.DBTX, now time.Time) (int64, error) {
	n, err := r.queries.MarkOverdueLoans(ctx, tx, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark overdue loans", err)
	}
	return n, nil
}

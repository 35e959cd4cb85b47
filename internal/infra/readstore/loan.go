package readstore

import (
	"context"
	"errors"

	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/pkg/pgconv"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LoanReadQueries interface {
	GetLoanDetailByID(ctx context.Context, db dbq.DBTX, id uuid.UUID) (dbq.LoanDetailRow, error)
	ListLoanDetails(ctx context.Context, db dbq.DBTX, arg dbq.ListLoanDetailsParams) ([]dbq.LoanDetailRow, error)
	CountLoans(ctx context.Context, db dbq.DBTX, filter dbq.LoanFilter) (int64, error)
}

type LoanReadStore struct {
	queries LoanReadQueries
	db      dbq.DBTX
}

func NewLoanReadStore(queries LoanReadQueries, db dbq.DBTX) *LoanReadStore {
	return &LoanReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *LoanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	row, err := r.queries.GetLoanDetailByID(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan by ID", err)
	}

	view := toLoanView(row)
	return &view, nil
}

func (r *LoanReadStore) List(ctx context.Context, filter queries.LoanFilter, limit, offset int) ([]queries.LoanView, error) {
	rows, err := r.queries.ListLoanDetails(ctx, r.db, dbq.ListLoanDetailsParams{
		LoanFilter: toLoanFilter(filter),
		Limit:      int32(limit),  // #nosec G115 -- bounded by MaxListLimit
		Offset:     int32(offset), // #nosec G115
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans", err)
	}
	return toLoanViews(rows), nil
}

func (r *LoanReadStore) Count(ctx context.Context, filter queries.LoanFilter) (int64, error) {
	n, err := r.queries.CountLoans(ctx, r.db, toLoanFilter(filter))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count loans", err)
	}
	return n, nil
}

func toLoanFilter(f queries.LoanFilter) dbq.LoanFilter {
	out := dbq.LoanFilter{
		UserID: f.UserID,
		BookID: f.BookID,
	}
	if f.Status != nil {
		s := f.Status.String()
		out.Status = &s
	}
	return out
}

func toLoanViews(rows []dbq.LoanDetailRow) []queries.LoanView {
	views := make([]queries.LoanView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toLoanView(row))
	}
	return views
}

func toLoanView(row dbq.LoanDetailRow) queries.LoanView {
	returnedAt := pgconv.TimePtrFromPgtype(row.ReturnedAt)
	dueDate := pgconv.TimeFromPgtype(row.DueDate)
	return queries.LoanView{
		ID:           row.ID,
		BookID:       row.BookID,
		UserID:       row.UserID,
		BorrowedAt:   pgconv.TimeFromPgtype(row.BorrowedAt),
		DueDate:      dueDate,
		ReturnedAt:   returnedAt,
		Status:       row.Status,
		Notes:        pgconv.StringPtrFromPgtype(row.Notes),
		ReturnedLate: returnedAt != nil && returnedAt.After(dueDate),
		Book: queries.BookSummaryView{
			ID:         row.BookID,
			Title:      row.BookTitle,
			Author:     row.BookAuthor,
			CoverImage: pgconv.StringPtrFromPgtype(row.BookCoverImage),
		},
		User: queries.BorrowerView{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
		},
	}
}

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

type UserReadQueries interface {
	GetUserByID(ctx context.Context, db dbq.DBTX, id uuid.UUID) (dbq.User, error)
	CountLoans(ctx context.Context, db dbq.DBTX, filter dbq.LoanFilter) (int64, error)
	ListUsersWithLoanCount(ctx context.Context, db dbq.DBTX, limit, offset int32) ([]dbq.UserWithLoanCountRow, error)
	CountUsers(ctx context.Context, db dbq.DBTX) (int64, error)
	RecentLoanDetailsByUser(ctx context.Context, db dbq.DBTX, userID uuid.UUID, limit int32) ([]dbq.LoanDetailRow, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      dbq.DBTX
}

func NewUserReadStore(queries UserReadQueries, db dbq.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, err := r.queries.GetUserByID(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	loanCount, err := r.queries.CountLoans(ctx, r.db, dbq.LoanFilter{UserID: &id})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count user loans", err)
	}

	view := toUserView(row, loanCount)
	return &view, nil
}

func (r *UserReadStore) List(ctx context.Context, limit, offset int) ([]queries.UserView, error) {
	// #nosec G115 -- bounded by MaxListLimit
	rows, err := r.queries.ListUsersWithLoanCount(ctx, r.db, int32(limit), int32(offset))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}

	views := make([]queries.UserView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toUserView(row.User, row.LoanCount))
	}
	return views, nil
}

func (r *UserReadStore) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUsers(ctx, r.db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count users", err)
	}
	return n, nil
}

func (r *UserReadStore) RecentLoans(ctx context.Context, userID uuid.UUID, limit int) ([]queries.LoanView, error) {
	rows, err := r.queries.RecentLoanDetailsByUser(ctx, r.db, userID, int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list recent loans", err)
	}
	return toLoanViews(rows), nil
}

func toUserView(row dbq.User, loanCount int64) queries.UserView {
	return queries.UserView{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      row.Role,
		IsActive:  row.IsActive,
		LastLogin: pgconv.TimePtrFromPgtype(row.LastLogin),
		LoanCount: loanCount,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

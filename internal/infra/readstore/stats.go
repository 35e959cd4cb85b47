package readstore

import (
	"context"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
)

type StatsReadQueries interface {
	CountUsers(ctx context.Context, db dbq.DBTX) (int64, error)
	CountBooks(ctx context.Context, db dbq.DBTX) (int64, error)
	CountLoansByStatus(ctx context.Context, db dbq.DBTX, status string) (int64, error)
}

// StatsReadStore backs the admin dashboard counters.
type StatsReadStore struct {
	queries StatsReadQueries
	db      dbq.DBTX
}

func NewStatsReadStore(queries StatsReadQueries, db dbq.DBTX) *StatsReadStore {
	return &StatsReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *StatsReadStore) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUsers(ctx, r.db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count users", err)
	}
	return n, nil
}

func (r *StatsReadStore) CountBooks(ctx context.Context) (int64, error) {
	n, err := r.queries.CountBooks(ctx, r.db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count books", err)
	}
	return n, nil
}

func (r *StatsReadStore) CountLoansByStatus(ctx context.Context, status loan.Status) (int64, error) {
	n, err := r.queries.CountLoansByStatus(ctx, r.db, status.String())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count loans by status", err)
	}
	return n, nil
}

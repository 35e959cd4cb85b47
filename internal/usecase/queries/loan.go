package queries

import (
	"context"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LoanFilter narrows a loan listing. Nil fields are not filtered on.
type LoanFilter struct {
	UserID *uuid.UUID
	BookID *uuid.UUID
	Status *loan.Status
}

type LoanQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *loan.Status, page PageRequest) (*Page[LoanView], error)
	List(ctx context.Context, filter LoanFilter, page PageRequest) (*Page[LoanView], error)
}

type LoanReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	List(ctx context.Context, filter LoanFilter, limit, offset int) ([]LoanView, error)
	Count(ctx context.Context, filter LoanFilter) (int64, error)
}

type loanQueriesImpl struct {
	readStore LoanReadStore
}

func NewLoanQueries(readStore LoanReadStore) LoanQueries {
	return &loanQueriesImpl{readStore: readStore}
}

func (q *loanQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *loanQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, status *loan.Status, page PageRequest) (*Page[LoanView], error) {
	return q.List(ctx, LoanFilter{UserID: &userID, Status: status}, page)
}

// List is ordered by borrowed_at descending, ties broken by id descending.
func (q *loanQueriesImpl) List(ctx context.Context, filter LoanFilter, page PageRequest) (*Page[LoanView], error) {
	var (
		items []LoanView
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = q.readStore.List(gctx, filter, page.Limit, page.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = q.readStore.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewPage(items, page, total), nil
}

package queries

import (
	"context"

	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const RecentLoansLimit = 10

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
	GetDetail(ctx context.Context, userID uuid.UUID) (*UserDetailView, error)
	List(ctx context.Context, page PageRequest) (*Page[UserView], error)
	Stats(ctx context.Context) (*StatsView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, limit, offset int) ([]UserView, error)
	Count(ctx context.Context) (int64, error)
	RecentLoans(ctx context.Context, userID uuid.UUID, limit int) ([]LoanView, error)
}

type StatsReadStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountBooks(ctx context.Context) (int64, error)
	CountLoansByStatus(ctx context.Context, status loan.Status) (int64, error)
}

type userQueriesImpl struct {
	readStore  UserReadStore
	statsStore StatsReadStore
}

func NewUserQueries(readStore UserReadStore, statsStore StatsReadStore) UserQueries {
	return &userQueriesImpl{
		readStore:  readStore,
		statsStore: statsStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	u, err := q.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	return &AuthorizedUserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}, nil
}

func (q *userQueriesImpl) GetDetail(ctx context.Context, userID uuid.UUID) (*UserDetailView, error) {
	u, err := q.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loans, err := q.readStore.RecentLoans(ctx, userID, RecentLoansLimit)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []LoanView{}
	}

	return &UserDetailView{UserView: *u, RecentLoans: loans}, nil
}

func (q *userQueriesImpl) List(ctx context.Context, page PageRequest) (*Page[UserView], error) {
	var (
		items []UserView
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = q.readStore.List(gctx, page.Limit, page.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = q.readStore.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewPage(items, page, total), nil
}

func (q *userQueriesImpl) Stats(ctx context.Context) (*StatsView, error) {
	var stats StatsView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = q.statsStore.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalBooks, err = q.statsStore.CountBooks(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveLoans, err = q.statsStore.CountLoansByStatus(gctx, loan.StatusActive)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueLoans, err = q.statsStore.CountLoansByStatus(gctx, loan.StatusOverdue)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (q *userQueriesImpl) findByID(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	u, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

package queries

import (
	"context"
	"strings"

	"library-api/internal/domain/book"
	"library-api/internal/infra"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const MaxSearchResults = 20

type BookFilter struct {
	Search string
	Genre  string
}

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	List(ctx context.Context, filter BookFilter, page PageRequest) (*Page[BookView], error)
	Search(ctx context.Context, term string) ([]BookView, error)
}

type BookReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	List(ctx context.Context, filter BookFilter, limit, offset int) ([]BookView, error)
	Count(ctx context.Context, filter BookFilter) (int64, error)
	Search(ctx context.Context, term string, limit int) ([]BookView, error)
}

type bookQueriesImpl struct {
	readStore BookReadStore
}

func NewBookQueries(readStore BookReadStore) BookQueries {
	return &bookQueriesImpl{readStore: readStore}
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookQueriesImpl) List(ctx context.Context, filter BookFilter, page PageRequest) (*Page[BookView], error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Genre = strings.TrimSpace(filter.Genre)

	var (
		items []BookView
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

func (q *bookQueriesImpl) Search(ctx context.Context, term string) ([]BookView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []BookView{}, nil
	}
	return q.readStore.Search(ctx, term, MaxSearchResults)
}

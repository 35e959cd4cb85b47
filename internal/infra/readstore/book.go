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

type BookReadQueries interface {
	GetBookByID(ctx context.Context, db dbq.DBTX, id uuid.UUID) (dbq.Book, error)
	ListBooks(ctx context.Context, db dbq.DBTX, arg dbq.ListBooksParams) ([]dbq.Book, error)
	CountFilteredBooks(ctx context.Context, db dbq.DBTX, filter dbq.BookFilter) (int64, error)
	SearchBooks(ctx context.Context, db dbq.DBTX, term string, limit int32) ([]dbq.Book, error)
}

type BookReadStore struct {
	queries BookReadQueries
	db      dbq.DBTX
}

func NewBookReadStore(queries BookReadQueries, db dbq.DBTX) *BookReadStore {
	return &BookReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	row, err := r.queries.GetBookByID(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book by ID", err)
	}

	view := toBookView(row)
	return &view, nil
}

func (r *BookReadStore) List(ctx context.Context, filter queries.BookFilter, limit, offset int) ([]queries.BookView, error) {
	rows, err := r.queries.ListBooks(ctx, r.db, dbq.ListBooksParams{
		BookFilter: toBookFilter(filter),
		Limit:      int32(limit),  // #nosec G115 -- bounded by MaxListLimit
		Offset:     int32(offset), // #nosec G115
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list books", err)
	}
	return toBookViews(rows), nil
}

func (r *BookReadStore) Count(ctx context.Context, filter queries.BookFilter) (int64, error) {
	n, err := r.queries.CountFilteredBooks(ctx, r.db, toBookFilter(filter))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count books", err)
	}
	return n, nil
}

func (r *BookReadStore) Search(ctx context.Context, term string, limit int) ([]queries.BookView, error) {
	rows, err := r.queries.SearchBooks(ctx, r.db, term, int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search books", err)
	}
	return toBookViews(rows), nil
}

func toBookFilter(f queries.BookFilter) dbq.BookFilter {
	return dbq.BookFilter{Search: f.Search, Genre: f.Genre}
}

func toBookViews(rows []dbq.Book) []queries.BookView {
	views := make([]queries.BookView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toBookView(row))
	}
	return views
}

func toBookView(row dbq.Book) queries.BookView {
	return queries.BookView{
		ID:          row.ID,
		Title:       row.Title,
		Author:      row.Author,
		ISBN:        pgconv.StringPtrFromPgtype(row.Isbn),
		Description: pgconv.StringPtrFromPgtype(row.Description),
		Genre:       nonNilStrings(row.Genre),
		CoverImage:  pgconv.StringPtrFromPgtype(row.CoverImage),
		Publisher:   pgconv.StringPtrFromPgtype(row.Publisher),
		PublishedAt: pgconv.DatePtrFromPgtype(row.PublishedAt),
		Pages:       pgconv.IntPtrFromPgtype(row.Pages),
		Language:    row.Language,
		Copies:      int(row.Copies),
		Available:   int(row.Available),
		Location:    pgconv.StringPtrFromPgtype(row.Location),
		Tags:        nonNilStrings(row.Tags),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package repository

import (
	"context"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/infra/repository/converter"
	"library-api/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookWriteQueries interface {
	CreateBook(ctx context.Context, db dbq.DBTX, arg dbq.CreateBookParams) (dbq.Book, error)
	UpdateBook(ctx context.Context, db dbq.DBTX, arg dbq.UpdateBookParams) (int64, error)
	AdjustBookAvailable(ctx context.Context, db dbq.DBTX, arg dbq.AdjustBookAvailableParams) (int64, error)
	DeleteBook(ctx context.Context, db dbq.DBTX, id uuid.UUID) (int64, error)
	SetBookDescription(ctx context.Context, db dbq.DBTX, id uuid.UUID, description string, at time.Time) (int64, error)
}

type BookRepository struct {
	queries BookWriteQueries
}

func NewBookRepository(queries BookWriteQueries) *BookRepository {
	return &BookRepository{queries: queries}
}

func (r *BookRepository) Create(ctx context.Context, tx dbq.DBTX, b *book.Book) error {
	if _, err := r.queries.CreateBook(ctx, tx, converter.BookToCreateParams(b)); err != nil {
		return infra.WrapRepoErr("failed to create book", err)
	}
	return nil
}

func (r *BookRepository) Update(ctx context.Context, tx dbq.DBTX, b *book.Book) error {
	n, err := r.queries.UpdateBook(ctx, tx, converter.BookToUpdateParams(b))
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookRepository) AdjustAvailable(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID, delta int, at time.Time) error {
	n, err := r.queries.AdjustBookAvailable(ctx, tx, dbq.AdjustBookAvailableParams{
		ID: bookID,
		// #nosec G115 -- delta is always +1 or -1
		Delta:     int32(delta),
		UpdatedAt: pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to adjust available copies", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("available copies would leave [0, copies]", nil, infra.KindCheckViolated)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID) error {
	n, err := r.queries.DeleteBook(ctx, tx, bookID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookRepository) SetDescription(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID, description string, at time.Time) error {
	n, err := r.queries.SetBookDescription(ctx, tx, bookID, description, at)
	if err != nil {
		return infra.WrapRepoErr("failed to set book description", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return nil
}

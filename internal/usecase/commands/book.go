package commands

import (
	"context"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/infra"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/patch"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookRequest struct {
	Details book.Details
	Copies  *int
}

// UpdateBookRequest is a partial update; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title       *string
	Author      *string
	ISBN        *string
	Description *string
	Genre       []string
	CoverImage  *string
	Publisher   *string
	PublishedAt *time.Time
	Pages       *int
	Language    *string
	Copies      *int
	Location    *string
	Tags        []string
}

type BookCommands interface {
	Create(ctx context.Context, req CreateBookRequest) (*book.Book, error)
	Update(ctx context.Context, bookID uuid.UUID, req UpdateBookRequest) (*book.Book, error)
	Delete(ctx context.Context, bookID uuid.UUID) error
}

type bookUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookUseCase(uow shared.UnitOfWork, clk clock.Clock) BookCommands {
	return &bookUseCaseImpl{uow: uow, clock: clk}
}

func (uc *bookUseCaseImpl) Create(ctx context.Context, req CreateBookRequest) (*book.Book, error) {
	b, err := book.NewBook(req.Details, patch.Coalesce(req.Copies, book.DefaultCopies), uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if derr := tx.Books().Create(ctx, tx.DB(), b); derr != nil {
			if infra.IsConstraint(derr, infra.ConstraintBookISBN) {
				return book.ErrDuplicateISBN
			}
			return derr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("book created", "book_id", b.ID(), "copies", b.Copies())
	return b, nil
}

// Update changes descriptive fields and, when copies change, shifts available by the same
// delta under the book lock so the number of copies on loan is preserved.
func (uc *bookUseCaseImpl) Update(ctx context.Context, bookID uuid.UUID, req UpdateBookRequest) (*book.Book, error) {
	var updated *book.Book
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		b, derr := tx.Reads().LockBook(ctx, bookID)
		if derr != nil {
			return notFoundAs(derr, book.ErrBookNotFound)
		}

		if derr = b.Revise(mergeDetails(b.Details(), req), now); derr != nil {
			return derr
		}
		if req.Copies != nil && *req.Copies != b.Copies() {
			if derr = b.ChangeCopies(*req.Copies, now); derr != nil {
				return derr
			}
		}

		if derr = tx.Books().Update(ctx, tx.DB(), b); derr != nil {
			if infra.IsConstraint(derr, infra.ConstraintBookISBN) {
				return book.ErrDuplicateISBN
			}
			return notFoundAs(derr, book.ErrBookNotFound)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refuses books with any loan history; loans are never deleted.
func (uc *bookUseCaseImpl) Delete(ctx context.Context, bookID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Reads().LockBook(ctx, bookID)
		if derr != nil {
			return notFoundAs(derr, book.ErrBookNotFound)
		}

		loans, derr := tx.Reads().CountLoansByBook(ctx, b.ID())
		if derr != nil {
			return derr
		}
		if loans > 0 {
			return book.ErrBookHasLoans
		}

		if derr = tx.Books().Delete(ctx, tx.DB(), b.ID()); derr != nil {
			if infra.IsKind(derr, infra.KindForeignKeyViolated) {
				return book.ErrBookHasLoans
			}
			return notFoundAs(derr, book.ErrBookNotFound)
		}
		return nil
	})
}

func mergeDetails(d book.Details, req UpdateBookRequest) book.Details {
	return book.Details{
		Title:       patch.Coalesce(req.Title, d.Title),
		Author:      patch.Coalesce(req.Author, d.Author),
		ISBN:        patch.CoalescePtr(req.ISBN, d.ISBN),
		Description: patch.CoalescePtr(req.Description, d.Description),
		Genre:       patch.CoalesceSlice(req.Genre, d.Genre),
		CoverImage:  patch.CoalescePtr(req.CoverImage, d.CoverImage),
		Publisher:   patch.CoalescePtr(req.Publisher, d.Publisher),
		PublishedAt: patch.CoalescePtr(req.PublishedAt, d.PublishedAt),
		Pages:       patch.CoalescePtr(req.Pages, d.Pages),
		Language:    patch.Coalesce(req.Language, d.Language),
		Location:    patch.CoalescePtr(req.Location, d.Location),
		Tags:        patch.CoalesceSlice(req.Tags, d.Tags),
	}
}

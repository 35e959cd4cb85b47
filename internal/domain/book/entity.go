package book

import (
	"time"

	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTitle  = errs.NewMarked("title is required (max 300 characters)", errs.ErrDomainValidation)
	ErrInvalidAuthor = errs.NewMarked("author is required (max 200 characters)", errs.ErrDomainValidation)
	ErrInvalidISBN   = errs.NewMarked("isbn is too long", errs.ErrDomainValidation)
	ErrInvalidPages  = errs.NewMarked("pages must be positive", errs.ErrDomainValidation)
	ErrInvalidCopies = errs.NewMarked("copies must be at least 1", errs.ErrDomainValidation)

	ErrBookNotFound           = errs.NewMarked("book not found", errs.ErrNotFound)
	ErrDuplicateISBN          = errs.NewMarked("a book with this isbn already exists", errs.ErrConflict)
	ErrCopiesBelowOutstanding = errs.NewMarked("copies cannot be lower than the number of copies on loan", errs.ErrConflict)
	ErrBookHasLoans           = errs.NewMarked("book has loan history and cannot be deleted", errs.ErrConflict)

	ErrAvailabilityOutOfRange = errs.NewMarked("available copies out of range", errs.ErrInvariantViolation)
)

type Book struct {
	id        uuid.UUID
	details   Details
	copies    int
	available int
	createdAt time.Time
	updatedAt time.Time
}

// NewBook creates a catalog entry with every copy on the shelf.
func NewBook(details Details, copies int, now time.Time) (*Book, error) {
	d, err := details.normalize()
	if err != nil {
		return nil, err
	}
	if copies < 1 {
		return nil, ErrInvalidCopies
	}
	return &Book{
		id:        uuid.New(),
		details:   d,
		copies:    copies,
		available: copies,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructBook(id uuid.UUID, details Details, copies, available int, createdAt, updatedAt time.Time) *Book {
	return &Book{
		id:        id,
		details:   details,
		copies:    copies,
		available: available,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Book) ID() uuid.UUID        { return b.id }
func (b *Book) Details() Details     { return b.details }
func (b *Book) Title() string        { return b.details.Title }
func (b *Book) Author() string       { return b.details.Author }
func (b *Book) Copies() int          { return b.copies }
func (b *Book) Available() int       { return b.available }
func (b *Book) OnLoan() int          { return b.copies - b.available }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

func (b *Book) Revise(details Details, now time.Time) error {
	d, err := details.normalize()
	if err != nil {
		return err
	}
	b.details = d
	b.updatedAt = now
	return nil
}

// ChangeCopies keeps the number of copies on loan constant: available moves by the same delta.
func (b *Book) ChangeCopies(copies int, now time.Time) error {
	if copies < 1 {
		return ErrInvalidCopies
	}
	onLoan := b.OnLoan()
	if copies < onLoan {
		return ErrCopiesBelowOutstanding
	}
	b.copies = copies
	b.available = copies - onLoan
	b.updatedAt = now
	return nil
}

func (b *Book) SetDescription(description string, now time.Time) {
	b.details.Description = &description
	b.updatedAt = now
}

// AdjustAvailable moves the available counter by delta, refusing to leave [0, copies].
func (b *Book) AdjustAvailable(delta int) error {
	next := b.available + delta
	if next < 0 || next > b.copies {
		return ErrAvailabilityOutOfRange
	}
	b.available = next
	return nil
}

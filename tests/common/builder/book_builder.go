//go:build unit || e2e

package builder

import (
	"time"

	"library-api/internal/domain/book"
	reqdto "library-api/internal/handler/dto/request"
	"library-api/internal/infra/dbq"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookBuilder struct {
	ID        uuid.UUID
	Title     string
	Author    string
	ISBN      *string
	Genre     []string
	Tags      []string
	Copies    int
	Available int
	CreatedAt time.Time
}

func NewBookBuilder() *BookBuilder {
	isbn := "9780132350884"
	return &BookBuilder{
		ID:        uuid.New(),
		Title:     "Clean Code",
		Author:    "Robert C. Martin",
		ISBN:      &isbn,
		Genre:     []string{"Programming"},
		Tags:      []string{"refactoring"},
		Copies:    3,
		Available: 3,
		CreatedAt: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

func (b *BookBuilder) WithID(id uuid.UUID) *BookBuilder {
	b.ID = id
	return b
}

func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.Title = title
	return b
}

func (b *BookBuilder) WithISBN(isbn string) *BookBuilder {
	b.ISBN = &isbn
	return b
}

func (b *BookBuilder) WithoutISBN() *BookBuilder {
	b.ISBN = nil
	return b
}

// WithCopies sets copies and available together, as for a book with nothing on loan.
func (b *BookBuilder) WithCopies(copies int) *BookBuilder {
	b.Copies = copies
	b.Available = copies
	return b
}

func (b *BookBuilder) WithAvailable(available int) *BookBuilder {
	b.Available = available
	return b
}

func (b *BookBuilder) Details() book.Details {
	return book.Details{
		Title:    b.Title,
		Author:   b.Author,
		ISBN:     b.ISBN,
		Genre:    b.Genre,
		Language: book.DefaultLanguage,
		Tags:     b.Tags,
	}
}

// Build methods
func (b *BookBuilder) BuildDomain() *book.Book {
	return book.ReconstructBook(b.ID, b.Details(), b.Copies, b.Available, b.CreatedAt, b.CreatedAt)
}

func (b *BookBuilder) BuildCreateCommand() commands.CreateBookRequest {
	copies := b.Copies
	return commands.CreateBookRequest{Details: b.Details(), Copies: &copies}
}

func (b *BookBuilder) BuildCreateDTO() reqdto.CreateBookRequest {
	copies := b.Copies
	return reqdto.CreateBookRequest{
		Title:    b.Title,
		Author:   b.Author,
		ISBN:     b.ISBN,
		Genre:    b.Genre,
		Language: book.DefaultLanguage,
		Copies:   &copies,
		Tags:     b.Tags,
	}
}

func (b *BookBuilder) BuildInfra() dbq.Book {
	var isbn pgtype.Text
	if b.ISBN != nil {
		isbn = pgtype.Text{String: *b.ISBN, Valid: true}
	}
	return dbq.Book{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Isbn:      isbn,
		Genre:     b.Genre,
		Language:  book.DefaultLanguage,
		Copies:    int32(b.Copies),    // #nosec G115
		Available: int32(b.Available), // #nosec G115
		Tags:      b.Tags,
		CreatedAt: pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt: pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
	}
}

func (b *BookBuilder) BuildView() *queries.BookView {
	return &queries.BookView{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Genre:     b.Genre,
		Language:  book.DefaultLanguage,
		Copies:    b.Copies,
		Available: b.Available,
		Tags:      b.Tags,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

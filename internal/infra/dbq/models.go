package dbq

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Book struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Isbn        pgtype.Text
	Description pgtype.Text
	Genre       []string
	CoverImage  pgtype.Text
	Publisher   pgtype.Text
	PublishedAt pgtype.Date
	Pages       pgtype.Int4
	Language    string
	Copies      int32
	Available   int32
	Location    pgtype.Text
	Tags        []string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Loan struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	BorrowedAt pgtype.Timestamptz
	DueDate    pgtype.Timestamptz
	ReturnedAt pgtype.Timestamptz
	Status     string
	Notes      pgtype.Text
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	LastLogin    pgtype.Timestamptz
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

// LoanDetailRow is a loan joined with the book and borrower it references.
type LoanDetailRow struct {
	Loan
	BookTitle      string
	BookAuthor     string
	BookCoverImage pgtype.Text
	UserName       string
	UserEmail      string
}

type UserWithLoanCountRow struct {
	User
	LoanCount int64
}

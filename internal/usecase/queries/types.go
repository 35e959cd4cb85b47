package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookView represents read-optimized catalog data
type BookView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        *string    `json:"isbn,omitempty"`
	Description *string    `json:"description,omitempty"`
	Genre       []string   `json:"genre"`
	CoverImage  *string    `json:"cover_image,omitempty"`
	Publisher   *string    `json:"publisher,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Pages       *int       `json:"pages,omitempty"`
	Language    string     `json:"language"`
	Copies      int        `json:"copies"`
	Available   int        `json:"available"`
	Location    *string    `json:"location,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type BookSummaryView struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	CoverImage *string   `json:"cover_image,omitempty"`
}

type BorrowerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoanView is a loan joined with the book and borrower it references
type LoanView struct {
	ID           uuid.UUID       `json:"id"`
	BookID       uuid.UUID       `json:"book_id"`
	UserID       uuid.UUID       `json:"user_id"`
	BorrowedAt   time.Time       `json:"borrowed_at"`
	DueDate      time.Time       `json:"due_date"`
	ReturnedAt   *time.Time      `json:"returned_at,omitempty"`
	Status       string          `json:"status"`
	Notes        *string         `json:"notes,omitempty"`
	ReturnedLate bool            `json:"returned_late"`
	Book         BookSummaryView `json:"book"`
	User         BorrowerView    `json:"user"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	LoanCount int64      `json:"loan_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type UserDetailView struct {
	UserView
	RecentLoans []LoanView `json:"recent_loans"`
}

type StatsView struct {
	TotalUsers   int64 `json:"total_users"`
	TotalBooks   int64 `json:"total_books"`
	ActiveLoans  int64 `json:"active_loans"`
	OverdueLoans int64 `json:"overdue_loans"`
}

package shared

import (
	"context"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra/dbq"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Books() BookRepository
	Loans() LoanRepository
	Users() UserRepository
	Reads() CommandReads
	DB() dbq.DBTX
}

// CommandReads load write-side aggregates. The Lock* variants take a row lock and are
// only meaningful inside Within; lock the book before its loans.
type CommandReads interface {
	BookByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
	LockBook(ctx context.Context, id uuid.UUID) (*book.Book, error)
	LoanByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
	LockLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
	HasOutstandingLoan(ctx context.Context, bookID, userID uuid.UUID) (bool, error)
	CountLoansByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	UserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UserByEmail(ctx context.Context, email user.Email) (*user.User, error)
}

type BookRepository interface {
	Create(ctx context.Context, tx dbq.DBTX, b *book.Book) error
	Update(ctx context.Context, tx dbq.DBTX, b *book.Book) error
	// AdjustAvailable fails with KindCheckViolated when the result would leave [0, copies].
	AdjustAvailable(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID, delta int, at time.Time) error
	Delete(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID) error
	SetDescription(ctx context.Context, tx dbq.DBTX, bookID uuid.UUID, description string, at time.Time) error
}

type LoanRepository interface {
	Create(ctx context.Context, tx dbq.DBTX, l *loan.Loan) error
	// MarkReturned fails with KindNotFound when the loan is no longer outstanding.
	MarkReturned(ctx context.Context, tx dbq.DBTX, l *loan.Loan) error
	MarkOverdue(ctx context.Context, tx dbq.DBTX, now time.Time) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx dbq.DBTX, u *user.User) error
	UpdateLastLogin(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, name *user.Name, role *user.Role, at time.Time) error
	Deactivate(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, at time.Time) error
}

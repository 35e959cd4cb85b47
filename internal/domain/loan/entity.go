package loan

import (
	"strings"
	"time"
	"unicode/utf8"

	"library-api/internal/domain/user"
	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxNotesLength = 1000

var (
	ErrInvalidStatus  = errs.NewMarked("invalid loan status", errs.ErrDomainValidation)
	ErrInvalidDueDate = errs.NewMarked("due date must be after the checkout time", errs.ErrDomainValidation)
	ErrNotesTooLong   = errs.NewMarked("notes must be at most 1000 characters", errs.ErrDomainValidation)

	ErrLoanNotFound      = errs.NewMarked("loan not found", errs.ErrNotFound)
	ErrNoCopiesAvailable = errs.NewMarked("no copies available", errs.ErrConflict)
	ErrAlreadyCheckedOut = errs.NewMarked("already checked out", errs.ErrConflict)
	ErrAlreadyReturned   = errs.NewMarked("already returned", errs.ErrConflict)
	ErrNotLoanOwner      = errs.NewMarked("loan belongs to another user", errs.ErrForbidden)
)

// Availability is the slice of a catalog record the ledger decides on.
type Availability struct {
	BookID    uuid.UUID
	Copies    int
	Available int
}

type Loan struct {
	id         uuid.UUID
	bookID     uuid.UUID
	userID     uuid.UUID
	borrowedAt time.Time
	dueDate    time.Time
	returnedAt *time.Time
	status     Status
	notes      *string
}

// Checkout validates the ledger preconditions in order (copies left, then no outstanding
// loan for the same user) and returns a new ACTIVE loan. The caller must hold the book
// row lock (or equivalent) from the availability read until the counter is decremented.
func Checkout(avail Availability, userID uuid.UUID, hasOutstanding bool, dueDate time.Time, notes *string, now time.Time) (*Loan, error) {
	if avail.Available <= 0 {
		return nil, ErrNoCopiesAvailable
	}
	if hasOutstanding {
		return nil, ErrAlreadyCheckedOut
	}
	if !dueDate.After(now) {
		return nil, ErrInvalidDueDate
	}
	n, err := normalizeNotes(notes)
	if err != nil {
		return nil, err
	}

	return &Loan{
		id:         uuid.New(),
		bookID:     avail.BookID,
		userID:     userID,
		borrowedAt: now,
		dueDate:    dueDate,
		status:     StatusActive,
		notes:      n,
	}, nil
}

func ReconstructLoan(id, bookID, userID uuid.UUID, borrowedAt, dueDate time.Time, returnedAt *time.Time, status Status, notes *string) *Loan {
	return &Loan{
		id:         id,
		bookID:     bookID,
		userID:     userID,
		borrowedAt: borrowedAt,
		dueDate:    dueDate,
		returnedAt: returnedAt,
		status:     status,
		notes:      notes,
	}
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) BookID() uuid.UUID      { return l.bookID }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) BorrowedAt() time.Time  { return l.borrowedAt }
func (l *Loan) DueDate() time.Time     { return l.dueDate }
func (l *Loan) ReturnedAt() *time.Time { return l.returnedAt }
func (l *Loan) Status() Status         { return l.status }
func (l *Loan) Notes() *string         { return l.notes }

// Return moves an outstanding loan to RETURNED. Members may only return their own loans.
func (l *Loan) Return(actorID uuid.UUID, actorRole user.Role, now time.Time) error {
	if l.status == StatusReturned {
		return ErrAlreadyReturned
	}
	if !actorRole.IsPrivileged() && actorID != l.userID {
		return ErrNotLoanOwner
	}
	returnedAt := now
	l.returnedAt = &returnedAt
	l.status = StatusReturned
	return nil
}

// MarkOverdue applies the sweep predicate to a single loan and reports whether it changed.
func (l *Loan) MarkOverdue(now time.Time) bool {
	if l.status != StatusActive || !l.dueDate.Before(now) {
		return false
	}
	l.status = StatusOverdue
	return true
}

// ReturnedLate is derived from timestamps; there is no separate status for it.
func (l *Loan) ReturnedLate() bool {
	return l.returnedAt != nil && l.returnedAt.After(l.dueDate)
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(n) > MaxNotesLength {
		return nil, ErrNotesTooLong
	}
	return &n, nil
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/pkg/clock"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	BookID  uuid.UUID
	UserID  uuid.UUID
	DueDate *time.Time
	Notes   *string
}

type LoanCommands interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*loan.Loan, error)
	Return(ctx context.Context, loanID, actorID uuid.UUID, actorRole user.Role) (*loan.Loan, error)
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

type loanUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	policy loan.Policy
}

func NewLoanUseCase(uow shared.UnitOfWork, clk clock.Clock, policy loan.Policy) LoanCommands {
	return &loanUseCaseImpl{uow: uow, clock: clk, policy: policy}
}

// Checkout locks the book row, checks availability and the one-outstanding-loan rule,
// then inserts the loan and decrements the counter in the same transaction.
func (uc *loanUseCaseImpl) Checkout(ctx context.Context, req CheckoutRequest) (*loan.Loan, error) {
	now := uc.clock.Now()
	dueDate, err := uc.policy.DueDate(now, req.DueDate)
	if err != nil {
		return nil, err
	}

	var created *loan.Loan
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Reads().LockBook(ctx, req.BookID)
		if derr != nil {
			return notFoundAs(derr, book.ErrBookNotFound)
		}

		hasOutstanding, derr := tx.Reads().HasOutstandingLoan(ctx, b.ID(), req.UserID)
		if derr != nil {
			return derr
		}

		avail := loan.Availability{BookID: b.ID(), Copies: b.Copies(), Available: b.Available()}
		l, derr := loan.Checkout(avail, req.UserID, hasOutstanding, dueDate, req.Notes, now)
		if derr != nil {
			return derr
		}

		if derr = tx.Loans().Create(ctx, tx.DB(), l); derr != nil {
			switch {
			case infra.IsConstraint(derr, infra.ConstraintOutstandingLoan):
				return loan.ErrAlreadyCheckedOut
			case infra.IsConstraint(derr, infra.ConstraintLoanUserForeignKey):
				return user.ErrUserNotFound
			}
			return derr
		}

		if derr = adjustAvailable(ctx, tx, b.ID(), -1, now); derr != nil {
			return derr
		}

		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("loan checked out",
		"loan_id", created.ID(),
		"book_id", created.BookID(),
		"user_id", created.UserID(),
		"due_date", created.DueDate())
	return created, nil
}

// Return locks the book before the loan, the same order Checkout uses.
func (uc *loanUseCaseImpl) Return(ctx context.Context, loanID, actorID uuid.UUID, actorRole user.Role) (*loan.Loan, error) {
	var returned *loan.Loan
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		current, derr := tx.Reads().LoanByID(ctx, loanID)
		if derr != nil {
			return notFoundAs(derr, loan.ErrLoanNotFound)
		}
		if _, derr = tx.Reads().LockBook(ctx, current.BookID()); derr != nil {
			return notFoundAs(derr, book.ErrBookNotFound)
		}
		l, derr := tx.Reads().LockLoan(ctx, loanID)
		if derr != nil {
			return notFoundAs(derr, loan.ErrLoanNotFound)
		}

		if derr = l.Return(actorID, actorRole, now); derr != nil {
			return derr
		}

		if derr = tx.Loans().MarkReturned(ctx, tx.DB(), l); derr != nil {
			return notFoundAs(derr, loan.ErrAlreadyReturned)
		}

		if derr = adjustAvailable(ctx, tx, l.BookID(), +1, now); derr != nil {
			return derr
		}

		returned = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("loan returned",
		"loan_id", returned.ID(),
		"book_id", returned.BookID(),
		"actor_id", actorID,
		"late", returned.ReturnedLate())
	return returned, nil
}

// SweepOverdue moves every ACTIVE loan due before now to OVERDUE in one statement.
// Loans returned concurrently no longer match the ACTIVE predicate.
func (uc *loanUseCaseImpl) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	var updated int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, derr := tx.Loans().MarkOverdue(ctx, tx.DB(), now)
		if derr != nil {
			return derr
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if updated > 0 {
		slog.Info("overdue loans marked", "count", updated, "as_of", now)
	}
	return updated, nil
}

// adjustAvailable treats a rejected counter update as a broken invariant: the caller
// already holds the book lock, so the counter can only be out of range through a bug
// or out-of-band data changes.
func adjustAvailable(ctx context.Context, tx shared.Tx, bookID uuid.UUID, delta int, now time.Time) error {
	err := tx.Books().AdjustAvailable(ctx, tx.DB(), bookID, delta, now)
	if err == nil {
		return nil
	}
	if infra.IsKind(err, infra.KindCheckViolated) {
		slog.Error("availability invariant violated",
			"book_id", bookID,
			"delta", delta,
			"error", err.Error())
		return book.ErrAvailabilityOutOfRange
	}
	return err
}

func notFoundAs(err, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return err
}

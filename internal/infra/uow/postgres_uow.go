package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/infra/repository"
	"library-api/internal/infra/repository/converter"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *dbq.Queries
}

func NewPostgresUoW(pool *pgxpool.Pool, q *dbq.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// ReadCommitted plus explicit row locks (LockBook/LockLoan) serialize writers on the same book
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db dbq.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{
			dbtx: pgxTx,
			uow:  u,
		}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, db dbq.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx dbq.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookRepo     shared.BookRepository
	loanRepo     shared.LoanRepository
	userRepo     shared.UserRepository
	commandReads shared.CommandReads
}

func (t *pgTx) DB() dbq.DBTX {
	return t.dbtx
}

func (t *pgTx) Books() shared.BookRepository {
	if t.bookRepo == nil {
		t.bookRepo = repository.NewBookRepository(t.uow.q)
	}
	return t.bookRepo
}

func (t *pgTx) Loans() shared.LoanRepository {
	if t.loanRepo == nil {
		t.loanRepo = repository.NewLoanRepository(t.uow.q)
	}
	return t.loanRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.uow.q)
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			uow:  t.uow,
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx dbq.DBTX
}

func (r *commandReads) BookByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	row, err := r.uow.q.GetBookByID(ctx, r.dbtx, id)
	if err != nil {
		return nil, wrapReadErr("book", err)
	}
	return converter.BookFromRow(row), nil
}

func (r *commandReads) LockBook(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	row, err := r.uow.q.GetBookForUpdate(ctx, r.dbtx, id)
	if err != nil {
		return nil, wrapReadErr("book", err)
	}
	return converter.BookFromRow(row), nil
}

func (r *commandReads) LoanByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	row, err := r.uow.q.GetLoanByID(ctx, r.dbtx, id)
	if err != nil {
		return nil, wrapReadErr("loan", err)
	}
	return converter.LoanFromRow(row), nil
}

func (r *commandReads) LockLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	row, err := r.uow.q.GetLoanForUpdate(ctx, r.dbtx, id)
	if err != nil {
		return nil, wrapReadErr("loan", err)
	}
	return converter.LoanFromRow(row), nil
}

func (r *commandReads) HasOutstandingLoan(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	exists, err := r.uow.q.ExistsOutstandingLoan(ctx, r.dbtx, bookID, userID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check outstanding loan", err)
	}
	return exists, nil
}

func (r *commandReads) CountLoansByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	n, err := r.uow.q.CountLoansByBook(ctx, r.dbtx, bookID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count loans by book", err)
	}
	return n, nil
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row, err := r.uow.q.GetUserByID(ctx, r.dbtx, id)
	if err != nil {
		return nil, wrapReadErr("user", err)
	}
	return converter.UserFromRow(row)
}

func (r *commandReads) UserByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	row, err := r.uow.q.GetUserByEmail(ctx, r.dbtx, email.Value())
	if err != nil {
		return nil, wrapReadErr("user", err)
	}
	return converter.UserFromRow(row)
}

func wrapReadErr(entity string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(entity+" not found", err, infra.KindNotFound)
	}
	return infra.WrapRepoErr("failed to load "+entity, err)
}

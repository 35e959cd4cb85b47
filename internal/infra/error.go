package infra

import (
	"errors"
	"log/slog"

	"library-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind       RepositoryErrorKind
	Constraint string
	msg        string
	err        error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr classifies err (explicit kind first, then the Postgres SQLSTATE) and logs
// unexpected failures. NOT_FOUND and constraint violations are expected and logged at debug.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k, constraint := classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	logArgs := []any{
		slog.String("kind", string(k)),
	}
	if constraint != "" {
		logArgs = append(logArgs, slog.String("constraint", constraint))
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	if k == KindDBFailure {
		slog.Error("Repository error: "+msg, logArgs...)
	} else {
		slog.Debug("Repository error: "+msg, logArgs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: k, Constraint: constraint, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsConstraint reports a constraint violation on the named constraint or index.
func IsConstraint(err error, name string) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Constraint == name
	}
	return false
}

func classify(err error) (RepositoryErrorKind, string) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindDBFailure, ""
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return KindDuplicateKey, pgErr.ConstraintName
	case pgErrForeignKeyViolation:
		return KindForeignKeyViolated, pgErr.ConstraintName
	case pgErrCheckViolation:
		return KindCheckViolated, pgErr.ConstraintName
	default:
		return KindDBFailure, pgErr.ConstraintName
	}
}

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
)

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindCheckViolated      RepositoryErrorKind = "CHECK_VIOLATED"
)

// Constraint and index names from migrations/001_initial_schema.sql.
const (
	ConstraintUserEmail          = "users_email_key"
	ConstraintBookISBN           = "books_isbn_key"
	ConstraintOutstandingLoan    = "loans_outstanding_book_user_key"
	ConstraintBookAvailableRange = "books_available_range"
	ConstraintLoanBookForeignKey = "loans_book_id_fkey"
	ConstraintLoanUserForeignKey = "loans_user_id_fkey"
)

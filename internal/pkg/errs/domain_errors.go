package errs

import "errors"

// Categories shared by every layer. Specific sentinels are marked with one of these
// (errs.Mark) so handlers can map a whole family to one status code.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")

	ErrUnauthorized = errors.New("unauthorized")

	// Raised when a write would break a counter or ownership invariant. Always a bug.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrDomainValidation        = errors.New("domain validation error")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

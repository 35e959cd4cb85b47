package api

import (
	"net/http"

	"library-api/internal/handler/httperr"
	"library-api/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInternal = "Internal server error"

// statusFor maps error categories to HTTP statuses. Anything uncategorized is a 500.
func statusFor(err error) int {
	switch {
	case errs.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errs.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errs.Is(err, errs.ErrDomainValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithUseCaseError exposes the sentinel message for client errors only.
func abortWithUseCaseError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := msgInternal
	if status < http.StatusInternalServerError {
		if m, ok := errs.Message(err); ok {
			msg = m
		}
	}
	httperr.AbortWithError(c, status, err, msg, nil)
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

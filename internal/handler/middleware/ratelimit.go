package middleware

import (
	"context"
	"errors"
	"net/http"

	"library-api/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit keys requests by client IP. A nil limiter disables the check.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited,
				"Too many requests, please try again later", nil)
			return
		}

		c.Next()
	}
}

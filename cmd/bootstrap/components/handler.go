package components

import (
	"library-api/internal/handler"
	"library-api/internal/handler/api"
	"library-api/internal/handler/middleware"
	"library-api/internal/infra/ratelimit"
	"library-api/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookHandler,
		api.NewLoanHandler,
		api.NewUserHandler,
		api.NewSummaryHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
		func(
			auth *api.AuthHandler,
			book *api.BookHandler,
			loan *api.LoanHandler,
			user *api.UserHandler,
			summary *api.SummaryHandler,
		) handler.Handlers {
			return handler.Handlers{Auth: auth, Book: book, Loan: loan, User: user, Summary: summary}
		},
	),
	fx.Invoke(handler.NewRouter),
)

// NewRateLimiter returns a nil interface when Redis is not configured.
func NewRateLimiter(client *redis.Client, cfg config.Config) (middleware.RateLimiter, error) {
	if client == nil {
		return nil, nil
	}
	limiter, err := ratelimit.NewFixedWindowLimiter(client, cfg.Redis.Prefix, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if err != nil {
		return nil, err
	}
	return limiter, nil
}

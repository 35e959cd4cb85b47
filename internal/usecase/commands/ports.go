package commands

import (
	"context"
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/infra/ai"
	"library-api/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenService issues and verifies the access/refresh pair.
type TokenService interface {
	GenerateAccessToken(userID uuid.UUID, role user.Role) (string, error)
	GenerateRefreshToken(userID uuid.UUID, role user.Role) (string, string, error)
	ValidateRefreshToken(token string) (*jwt.Claims, error)
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// RefreshSessionStore holds the refresh token id each user may redeem next.
type RefreshSessionStore interface {
	Save(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error
	// Consume reports whether jti was the current session and removes it.
	Consume(ctx context.Context, userID uuid.UUID, jti string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type TextCompleter interface {
	Configured() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*ai.Completion, error)
}

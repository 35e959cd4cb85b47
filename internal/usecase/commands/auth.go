package commands

import (
	"context"
	"log/slog"
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/errs"
	"library-api/internal/pkg/password"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRefreshToken = errs.NewMarked("invalid or expired refresh token", errs.ErrUnauthorized)
	ErrTokenGeneration     = errs.New("token generation failed")
)

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type AuthResult struct {
	User   *user.User
	Tokens *TokenPair
}

type AuthCommands interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, pass string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type authCommandsImpl struct {
	uow      shared.UnitOfWork
	tokens   TokenService
	sessions RefreshSessionStore
	clock    clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, tokens TokenService, sessions RefreshSessionStore, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:      uow,
		tokens:   tokens,
		sessions: sessions,
		clock:    clk,
	}
}

// Register always creates a MEMBER; elevated roles are granted by an admin.
func (a *authCommandsImpl) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	name, err := user.NewName(req.Name)
	if err != nil {
		return nil, err
	}
	credentials, err := user.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	hash, err := password.HashPassword(credentials.Password().Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(name, credentials.Email(), hash, user.RoleMember, a.clock.Now())
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if derr := tx.Users().Create(ctx, tx.DB(), u); derr != nil {
			if infra.IsConstraint(derr, infra.ConstraintUserEmail) {
				return user.ErrEmailTaken
			}
			return derr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", u.ID())
	return a.issue(ctx, u)
}

// Login answers unknown email and wrong password with the same error.
func (a *authCommandsImpl) Login(ctx context.Context, email, pass string) (*AuthResult, error) {
	addr, err := user.NewEmail(email)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	u, err := a.uow.CommandReads().UserByEmail(ctx, addr)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err = password.ComparePassword(u.PasswordHash(), pass); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, user.ErrUserInactive
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), u.ID(), a.clock.Now())
	})
	if err != nil {
		// login itself succeeded
		slog.Warn("failed to update last login", "user_id", u.ID(), "error", err.Error())
	}

	return a.issue(ctx, u)
}

// Refresh redeems the current refresh session and rotates it. The role is reloaded so
// role changes take effect on the next refresh.
func (a *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := a.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	ok, err := a.sessions.Consume(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("refresh token rejected", "user_id", claims.UserID, "jti", claims.ID)
		return nil, ErrInvalidRefreshToken
	}

	u, err := a.uow.CommandReads().UserByID(ctx, claims.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, user.ErrUserInactive
	}

	return a.issue(ctx, u)
}

func (a *authCommandsImpl) Logout(ctx context.Context, userID uuid.UUID) error {
	return a.sessions.Revoke(ctx, userID)
}

func (a *authCommandsImpl) issue(ctx context.Context, u *user.User) (*AuthResult, error) {
	accessToken, err := a.tokens.GenerateAccessToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, jti, err := a.tokens.GenerateRefreshToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	if err = a.sessions.Save(ctx, u.ID(), jti, a.tokens.RefreshTokenDuration()); err != nil {
		return nil, err
	}

	return &AuthResult{
		User: u,
		Tokens: &TokenPair{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			AccessExpiresIn:  a.tokens.AccessTokenDuration(),
			RefreshExpiresIn: a.tokens.RefreshTokenDuration(),
		},
	}, nil
}

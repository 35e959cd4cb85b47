package commands

import (
	"context"
	"log/slog"

	"library-api/internal/domain/user"
	"library-api/internal/pkg/clock"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type UpdateUserRequest struct {
	Name *string
	Role *string
}

type UserCommands interface {
	Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*user.User, error)
	Deactivate(ctx context.Context, userID, actorID uuid.UUID) error
}

type userUseCaseImpl struct {
	uow      shared.UnitOfWork
	sessions RefreshSessionStore
	clock    clock.Clock
}

func NewUserUseCase(uow shared.UnitOfWork, sessions RefreshSessionStore, clk clock.Clock) UserCommands {
	return &userUseCaseImpl{uow: uow, sessions: sessions, clock: clk}
}

func (uc *userUseCaseImpl) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*user.User, error) {
	var name *user.Name
	if req.Name != nil {
		n, err := user.NewName(*req.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	var role *user.Role
	if req.Role != nil {
		r, err := user.NewRole(*req.Role)
		if err != nil {
			return nil, err
		}
		role = &r
	}

	var updated *user.User
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		u, derr := tx.Reads().UserByID(ctx, userID)
		if derr != nil {
			return notFoundAs(derr, user.ErrUserNotFound)
		}
		u.Apply(name, role, now)
		if derr = tx.Users().UpdateProfile(ctx, tx.DB(), userID, name, role, now); derr != nil {
			return notFoundAs(derr, user.ErrUserNotFound)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Deactivate keeps the row (loans reference it) and ends any refresh session.
func (uc *userUseCaseImpl) Deactivate(ctx context.Context, userID, actorID uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		u, derr := tx.Reads().UserByID(ctx, userID)
		if derr != nil {
			return notFoundAs(derr, user.ErrUserNotFound)
		}
		if derr = u.Deactivate(actorID, now); derr != nil {
			return derr
		}
		return notFoundAs(tx.Users().Deactivate(ctx, tx.DB(), userID, now), user.ErrUserNotFound)
	})
	if err != nil {
		return err
	}

	if err = uc.sessions.Revoke(ctx, userID); err != nil {
		slog.Warn("failed to revoke refresh session", "user_id", userID, "error", err.Error())
	}
	slog.Info("user deactivated", "user_id", userID, "actor_id", actorID)
	return nil
}

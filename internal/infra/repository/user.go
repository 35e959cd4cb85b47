package repository

import (
	"context"
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/infra"
	"library-api/internal/infra/dbq"
	"library-api/internal/infra/repository/converter"
	"library-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserWriteQueries interface {
	CreateUser(ctx context.Context, db dbq.DBTX, arg dbq.CreateUserParams) (dbq.User, error)
	UpdateLastLogin(ctx context.Context, db dbq.DBTX, id uuid.UUID, at pgtype.Timestamptz) error
	UpdateUserProfile(ctx context.Context, db dbq.DBTX, arg dbq.UpdateUserProfileParams) (int64, error)
	DeactivateUser(ctx context.Context, db dbq.DBTX, id uuid.UUID, at pgtype.Timestamptz) (int64, error)
}

type UserRepository struct {
	queries UserWriteQueries
}

func NewUserRepository(queries UserWriteQueries) *UserRepository {
	return &UserRepository{queries: queries}
}

func (r *UserRepository) Create(ctx context.Context, tx dbq.DBTX, u *user.User) error {
	if _, err := r.queries.CreateUser(ctx, tx, converter.UserToCreateParams(u)); err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, at time.Time) error {
	if err := r.queries.UpdateLastLogin(ctx, tx, userID, pgconv.TimeToPgtype(at)); err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, name *user.Name, role *user.Role, at time.Time) error {
	params := dbq.UpdateUserProfileParams{
		ID:        userID,
		UpdatedAt: pgconv.TimeToPgtype(at),
	}
	if name != nil {
		params.Name = pgconv.StringToPgtype(name.Value())
	}
	if role != nil {
		params.Role = pgconv.StringToPgtype(role.String())
	}

	n, err := r.queries.UpdateUserProfile(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update user profile", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, tx dbq.DBTX, userID uuid.UUID, at time.Time) error {
	n, err := r.queries.DeactivateUser(ctx, tx, userID, pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate user", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

package converter

import (
	"library-api/internal/domain/user"
	"library-api/internal/infra/dbq"
	"library-api/internal/pkg/errs"
	"library-api/internal/pkg/pgconv"
)

// UserFromRow re-validates stored values; a row that fails is reported as corrupt data.
func UserFromRow(row dbq.User) (*user.User, error) {
	name, err := user.NewName(row.Name)
	if err != nil {
		return nil, errs.Wrapf(err, "stored user %s has invalid name", row.ID)
	}
	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, errs.Wrapf(err, "stored user %s has invalid email", row.ID)
	}
	role, err := user.NewRole(row.Role)
	if err != nil {
		return nil, errs.Wrapf(err, "stored user %s has invalid role", row.ID)
	}
	return user.ReconstructUser(
		row.ID,
		name,
		email,
		row.PasswordHash,
		role,
		pgconv.TimePtrFromPgtype(row.LastLogin),
		row.IsActive,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func UserToCreateParams(u *user.User) dbq.CreateUserParams {
	return dbq.CreateUserParams{
		ID:           u.ID(),
		Name:         u.Name().Value(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		CreatedAt:    pgconv.TimeToPgtype(u.CreatedAt()),
	}
}

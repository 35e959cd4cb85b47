package dbq

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, name, email, password_hash, role, last_login, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.LastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, db DBTX, email string) (User, error) {
	return scanUser(db.QueryRow(ctx, getUserByEmail, email))
}

type CreateUserParams struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
}

const createUser = `INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (User, error) {
	return scanUser(db.QueryRow(ctx, createUser, arg.ID, arg.Name, arg.Email, arg.PasswordHash, arg.Role, arg.IsActive, arg.CreatedAt))
}

const updateLastLogin = `UPDATE users SET last_login = $2 WHERE id = $1`

func (q *Queries) UpdateLastLogin(ctx context.Context, db DBTX, id uuid.UUID, at pgtype.Timestamptz) error {
	_, err := db.Exec(ctx, updateLastLogin, id, at)
	return err
}

type UpdateUserProfileParams struct {
	ID        uuid.UUID
	Name      pgtype.Text
	Role      pgtype.Text
	UpdatedAt pgtype.Timestamptz
}

const updateUserProfile = `UPDATE users SET
	name = COALESCE($2, name),
	role = COALESCE($3, role),
	updated_at = $4
WHERE id = $1`

func (q *Queries) UpdateUserProfile(ctx context.Context, db DBTX, arg UpdateUserProfileParams) (int64, error) {
	tag, err := db.Exec(ctx, updateUserProfile, arg.ID, arg.Name, arg.Role, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deactivateUser = `UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1`

func (q *Queries) DeactivateUser(ctx context.Context, db DBTX, id uuid.UUID, at pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, deactivateUser, id, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listUsersWithLoanCount = `SELECT u.id, u.name, u.email, u.password_hash, u.role, u.last_login, u.is_active,
	u.created_at, u.updated_at,
	(SELECT COUNT(*) FROM loans l WHERE l.user_id = u.id) AS loan_count
FROM users u
ORDER BY u.created_at DESC, u.id DESC
LIMIT $1 OFFSET $2`

func (q *Queries) ListUsersWithLoanCount(ctx context.Context, db DBTX, limit, offset int32) ([]UserWithLoanCountRow, error) {
	rows, err := db.Query(ctx, listUsersWithLoanCount, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []UserWithLoanCountRow
	for rows.Next() {
		var r UserWithLoanCountRow
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Email, &r.PasswordHash, &r.Role, &r.LastLogin, &r.IsActive,
			&r.CreatedAt, &r.UpdatedAt, &r.LoanCount,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context, db DBTX) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countUsers).Scan(&n)
	return n, err
}

package user

import (
	"time"

	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errs.NewMarked("user not found", errs.ErrNotFound)
	ErrEmailTaken         = errs.NewMarked("email already registered", errs.ErrConflict)
	ErrInvalidCredentials = errs.NewMarked("invalid email or password", errs.ErrUnauthorized)
	ErrUserInactive       = errs.NewMarked("account is deactivated", errs.ErrForbidden)
	ErrSelfDeactivation   = errs.NewMarked("admins cannot deactivate their own account", errs.ErrConflict)
)

type User struct {
	id           uuid.UUID
	name         Name
	email        Email
	passwordHash string
	role         Role
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser registers a new account. Self-registration always produces a member;
// elevated roles are granted afterwards by an admin.
func NewUser(name Name, email Email, passwordHash string, role Role, now time.Time) *User {
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}
}

func ReconstructUser(id uuid.UUID, name Name, email Email, passwordHash string, role Role, lastLogin *time.Time, isActive bool, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		lastLogin:    lastLogin,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Name() Name            { return u.name }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }

// Apply is an admin edit; a nil field is left as is.
func (u *User) Apply(name *Name, role *Role, now time.Time) {
	if name != nil {
		u.name = *name
	}
	if role != nil {
		u.role = *role
	}
	u.updatedAt = now
}

func (u *User) Deactivate(actorID uuid.UUID, now time.Time) error {
	if actorID == u.id {
		return ErrSelfDeactivation
	}
	u.isActive = false
	u.updatedAt = now
	return nil
}

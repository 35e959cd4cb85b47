//go:build unit

package user_test

import (
	"strings"
	"testing"
	"time"

	"library-api/internal/domain/user"
	"library-api/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic success", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		name, _ := user.NewName("Test Member")
		email, _ := user.NewEmail("test@example.com")
		expected := user.NewUser(name, email, "hashed_password", user.RoleMember, time.Now())

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
		assert.Equal(t, "test@example.com", actual.Email().Value())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid address",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "mixed case is accepted",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("Valid@Example.COM") },
			},
			{
				name:   "empty",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "malformed",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing at sign",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "surrounding spaces are trimmed",
				mutate: func(b *builder.UserBuilder) { b.WithName("  Ada Lovelace  ") },
			},
			{
				name:   "blank",
				mutate: func(b *builder.UserBuilder) { b.WithName("   ") },
				errIs:  user.ErrInvalidName,
			},
			{
				name:   "too long",
				mutate: func(b *builder.UserBuilder) { b.WithName(strings.Repeat("a", user.MaxNameLength+1)) },
				errIs:  user.ErrInvalidName,
			},
		})
	})

	t.Run("state", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "active user",
				mutate: func(b *builder.UserBuilder) {},
			},
			{
				name:   "inactive user",
				mutate: func(b *builder.UserBuilder) { b.AsInactive() },
			},
		})
	})
}

func TestEmail_Lowercased(t *testing.T) {
	email, err := user.NewEmail("  Someone@Library.COM ")
	require.NoError(t, err)
	assert.Equal(t, "someone@library.com", email.Value())
}

func TestNewRole(t *testing.T) {
	cases := []struct {
		in         string
		want       user.Role
		privileged bool
		errIs      error
	}{
		{in: "MEMBER", want: user.RoleMember},
		{in: "LIBRARIAN", want: user.RoleLibrarian, privileged: true},
		{in: "ADMIN", want: user.RoleAdmin, privileged: true},
		{in: "admin", errIs: user.ErrInvalidRole},
		{in: "", errIs: user.ErrInvalidRole},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			role, err := user.NewRole(c.in)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, role)
			assert.Equal(t, c.privileged, role.IsPrivileged())
		})
	}
}

func TestNewPassword(t *testing.T) {
	_, err := user.NewPassword("12345")
	require.ErrorIs(t, err, user.ErrPasswordTooWeak)

	pw, err := user.NewPassword("123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", pw.Value())
}

func TestUser_Apply(t *testing.T) {
	u, err := builder.NewUserBuilder().BuildDomain()
	require.NoError(t, err)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	role := user.RoleLibrarian
	u.Apply(nil, &role, now)

	assert.Equal(t, user.RoleLibrarian, u.Role())
	assert.Equal(t, "Test Member", u.Name().Value())
	assert.Equal(t, now, u.UpdatedAt())
}

func TestUser_Deactivate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	t.Run("by another admin", func(t *testing.T) {
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, u.Deactivate(uuid.New(), now))
		assert.False(t, u.IsActive())
	})

	t.Run("self deactivation is refused", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithRole(user.RoleAdmin).BuildDomain()
		require.NoError(t, err)

		err = u.Deactivate(u.ID(), now)
		require.ErrorIs(t, err, user.ErrSelfDeactivation)
		assert.True(t, u.IsActive())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, c.errIs)
		})
	}
}

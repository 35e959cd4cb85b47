//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/infra/tokenstore"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/errs"
	"library-api/internal/pkg/jwt"
	"library-api/internal/usecase/commands"
	"library-api/tests/common/builder"
	"library-api/tests/common/fakestore"

	"github.com/stretchr/testify/suite"
)

type AuthCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *fakestore.Store
	clock *clock.MockClock
	jwt   *jwt.Service
	auth  commands.AuthCommands
	users commands.UserCommands
}

func (s *AuthCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = fakestore.New()
	s.clock = clock.NewMockClock(time.Now().UTC())
	s.jwt = jwt.NewService("test-secret-key-for-library-api", 15*time.Minute, 7*24*time.Hour)
	sessions := tokenstore.NewMemoryStore(s.clock)
	s.auth = commands.NewAuthCommands(s.store, s.jwt, sessions, s.clock)
	s.users = commands.NewUserUseCase(s.store, sessions, s.clock)
}

func TestAuthCommandsSuite(t *testing.T) {
	suite.Run(t, new(AuthCommandsTestSuite))
}

func (s *AuthCommandsTestSuite) register() *commands.AuthResult {
	dto := builder.NewAuthBuilder().BuildRegisterDTO()
	res, err := s.auth.Register(s.ctx, dto.ToCommand())
	s.Require().NoError(err)
	return res
}

func (s *AuthCommandsTestSuite) TestRegister() {
	res := s.register()

	s.Equal(user.RoleMember, res.User.Role())
	s.NotEqual("password123", res.User.PasswordHash())
	s.NotEmpty(res.Tokens.AccessToken)
	s.NotEmpty(res.Tokens.RefreshToken)
	s.Equal(15*time.Minute, res.Tokens.AccessExpiresIn)

	claims, err := s.jwt.ValidateAccessToken(res.Tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal(res.User.ID(), claims.UserID)
	s.Equal(user.RoleMember.String(), claims.Role)

	s.Run("email is taken regardless of case", func() {
		dto := builder.NewAuthBuilder().WithEmail("TEST@example.com").BuildRegisterDTO()
		_, err := s.auth.Register(s.ctx, dto.ToCommand())
		s.ErrorIs(err, user.ErrEmailTaken)
	})

	s.Run("weak password", func() {
		dto := builder.NewAuthBuilder().WithEmail("new@example.com").BuildRegisterDTO()
		req := dto.ToCommand()
		req.Password = "123"
		_, err := s.auth.Register(s.ctx, req)
		s.ErrorIs(err, user.ErrPasswordTooWeak)
	})
}

func (s *AuthCommandsTestSuite) TestLogin() {
	registered := s.register()
	creds := builder.NewAuthBuilder()

	s.Run("success records last login", func() {
		res, err := s.auth.Login(s.ctx, creds.Email, creds.Password)
		s.Require().NoError(err)
		s.Equal(registered.User.ID(), res.User.ID())
		s.NotNil(s.store.User(res.User.ID()).LastLogin())
	})

	s.Run("wrong password and unknown email look the same", func() {
		_, err := s.auth.Login(s.ctx, creds.Email, "wrong-password")
		s.ErrorIs(err, user.ErrInvalidCredentials)

		_, err = s.auth.Login(s.ctx, "nobody@example.com", creds.Password)
		s.ErrorIs(err, user.ErrInvalidCredentials)
		s.True(errs.Is(err, errs.ErrUnauthorized))
	})

	s.Run("deactivated account", func() {
		admin := builder.NewUserBuilder().WithRole(user.RoleAdmin)
		s.Require().NoError(s.users.Deactivate(s.ctx, registered.User.ID(), admin.ID))

		_, err := s.auth.Login(s.ctx, creds.Email, creds.Password)
		s.ErrorIs(err, user.ErrUserInactive)
	})
}

func (s *AuthCommandsTestSuite) TestRefresh_Rotates() {
	registered := s.register()

	rotated, err := s.auth.Refresh(s.ctx, registered.Tokens.RefreshToken)
	s.Require().NoError(err)
	s.NotEqual(registered.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	_, err = s.auth.Refresh(s.ctx, registered.Tokens.RefreshToken)
	s.ErrorIs(err, commands.ErrInvalidRefreshToken, "a redeemed token cannot be reused")

	_, err = s.auth.Refresh(s.ctx, rotated.Tokens.RefreshToken)
	s.NoError(err)
}

func (s *AuthCommandsTestSuite) TestRefresh_PicksUpRoleChange() {
	registered := s.register()
	role := user.RoleLibrarian.String()
	_, err := s.users.Update(s.ctx, registered.User.ID(), commands.UpdateUserRequest{Role: &role})
	s.Require().NoError(err)

	res, err := s.auth.Refresh(s.ctx, registered.Tokens.RefreshToken)
	s.Require().NoError(err)

	claims, err := s.jwt.ValidateAccessToken(res.Tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.RoleLibrarian.String(), claims.Role)
}

func (s *AuthCommandsTestSuite) TestRefresh_Rejected() {
	registered := s.register()

	s.Run("access token is not a refresh token", func() {
		_, err := s.auth.Refresh(s.ctx, registered.Tokens.AccessToken)
		s.ErrorIs(err, commands.ErrInvalidRefreshToken)
	})

	s.Run("empty token", func() {
		_, err := s.auth.Refresh(s.ctx, "")
		s.ErrorIs(err, commands.ErrInvalidRefreshToken)
	})

	s.Run("after logout", func() {
		s.Require().NoError(s.auth.Logout(s.ctx, registered.User.ID()))
		_, err := s.auth.Refresh(s.ctx, registered.Tokens.RefreshToken)
		s.ErrorIs(err, commands.ErrInvalidRefreshToken)
	})
}

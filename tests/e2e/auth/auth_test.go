//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"library-api/internal/domain/user"
	"library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/pkg/cookie"
	"library-api/tests/common/authtest"
	"library-api/tests/common/dbtest"
	"library-api/tests/common/httptest"
	"library-api/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "member@example.com", string(user.RoleMember))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleMember))

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	s.Run("new account is a member and signed in", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Name: "New Reader", Email: "New.Reader@Example.com", Password: "secret123"}, "")

		var res resdto.AuthResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		require.Equal(t, "new.reader@example.com", res.User.Email)
		require.Equal(t, string(user.RoleMember), res.User.Role)
		require.NotEmpty(t, res.AccessToken)
		require.NotNil(t, httptest.ExtractCookie(w, cookie.RefreshTokenCookieName))
	})

	s.Run("email is taken regardless of case", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Name: "Dup", Email: "MEMBER@example.com", Password: "secret123"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "email already registered")
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "member@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "member@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "deactivated user", email: "inactive@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusForbidden},
		{name: "empty email", email: "", password: dbtest.TestPassword, expectedStatus: http.StatusBadRequest},
		{name: "empty password", email: "member@example.com", password: "", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				httptest.AssertHeaders(t, w, map[string]string{"Content-Type": "application/json; charset=utf-8"})

				var res resdto.AuthResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
				require.NotEmpty(t, res.AccessToken)
				require.Greater(t, res.ExpiresIn, int64(0))

				var lastLogin *string
				err := s.DB.QueryRow(t.Context(), "SELECT last_login::text FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login not recorded")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	login := func() []*http.Cookie {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "member@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(s.T(), http.StatusOK, w.Code)
		return httptest.ExtractCookies(w)
	}

	s.Run("rotation invalidates the previous refresh token", func() {
		t := s.T()
		cookies := login()

		first := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		require.Equal(t, http.StatusOK, first.Code, first.Body.String())
		rotated := httptest.ExtractCookie(first, cookie.RefreshTokenCookieName)
		require.NotNil(t, rotated)

		replay := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		require.Equal(t, http.StatusUnauthorized, replay.Code)

		next := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, []*http.Cookie{rotated}, "")
		require.Equal(t, http.StatusOK, next.Code)
	})

	s.Run("garbage token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: "invalid-refresh-token"}, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("no token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Refresh token required")
	})

	s.Run("logout revokes the session", func() {
		t := s.T()
		cookies := login()

		authtest.LogoutUser(t, s.Router, cookies)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("returns the caller", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "staff@example.com", string(user.RoleLibrarian))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.Contains(t, body, "staff@example.com")
		require.Contains(t, body, string(user.RoleLibrarian))
		require.NotContains(t, body, "password")
	})

	s.Run("invalid token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "invalid-token")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("expired token", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, s.jwt.CreateExpiredToken(t, userID, user.RoleMember))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

}

func (s *authSuite) TestAuthenticationRequired() {
	s.Run("protected endpoints reject anonymous calls", func() {
		t := s.T()

		endpoints := []struct {
			method string
			path   string
		}{
			{http.MethodPost, logoutURL},
			{http.MethodGet, meURL},
			{http.MethodGet, "/api/loans/my"},
			{http.MethodPost, "/api/loans/checkout"},
			{http.MethodGet, "/api/users"},
		}

		for _, endpoint := range endpoints {
			w := httptest.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, endpoint.path)
		}
	})
}

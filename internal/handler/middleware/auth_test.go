//go:build unit

package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/handler/middleware"
	"library-api/internal/pkg/cookie"
	"library-api/internal/pkg/jwt"
	"library-api/internal/usecase"
	"library-api/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, minRole user.Role) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := jwt.NewService("test-secret-key-for-library-api", time.Minute, time.Hour)
	m := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc))

	r := gin.New()
	r.GET("/whoami", m.RequireAuth(), m.RequireRoleAtLeast(minRole), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r, svc
}

func TestRequireAuth(t *testing.T) {
	r, svc := newAuthRouter(t, user.RoleMember)
	userID := uuid.New()

	access, err := svc.GenerateAccessToken(userID, user.RoleMember)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, access)

		var body struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		}
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, userID, body.ID)
		assert.Equal(t, "MEMBER", body.Role)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		cookies := []*http.Cookie{{Name: cookie.AccessTokenCookieName, Value: access}}
		rec := httptest.PerformRequestWithCookies(t, r, http.MethodGet, "/whoami", nil, cookies, "garbage")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("malformed token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, "not-a-jwt")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, _, err := svc.GenerateRefreshToken(userID, user.RoleMember)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, refresh)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := jwt.NewService("some-other-secret", time.Minute, time.Hour)
		forged, err := other.GenerateAccessToken(userID, user.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, forged)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoleAtLeast(t *testing.T) {
	cases := []struct {
		min     user.Role
		role    user.Role
		allowed bool
	}{
		{min: user.RoleMember, role: user.RoleMember, allowed: true},
		{min: user.RoleLibrarian, role: user.RoleMember, allowed: false},
		{min: user.RoleLibrarian, role: user.RoleLibrarian, allowed: true},
		{min: user.RoleLibrarian, role: user.RoleAdmin, allowed: true},
		{min: user.RoleAdmin, role: user.RoleLibrarian, allowed: false},
		{min: user.RoleAdmin, role: user.RoleAdmin, allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.role.String()+" vs "+tc.min.String(), func(t *testing.T) {
			r, svc := newAuthRouter(t, tc.min)
			token, err := svc.GenerateAccessToken(uuid.New(), tc.role)
			require.NoError(t, err)

			rec := httptest.PerformRequest(t, r, http.MethodGet, "/whoami", nil, token)
			if tc.allowed {
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")
		})
	}

	t.Run("without RequireAuth", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		m := middleware.NewAuthMiddleware(nil)
		r := gin.New()
		r.GET("/x", m.RequireRoleAtLeast(user.RoleMember), func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/x", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}

type fixedLimiter struct {
	remaining int
	keys      []string
}

func (l *fixedLimiter) Allow(_ context.Context, key string) bool {
	l.keys = append(l.keys, key)
	if l.remaining <= 0 {
		return false
	}
	l.remaining--
	return true
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("rejects once the budget is spent", func(t *testing.T) {
		limiter := &fixedLimiter{remaining: 2}
		r := gin.New()
		r.GET("/x", middleware.RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 2; i++ {
			rec := httptest.PerformRequest(t, r, http.MethodGet, "/x", nil, "")
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/x", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Too many requests")
		require.Len(t, limiter.keys, 3)
		assert.Equal(t, "192.0.2.1", limiter.keys[0])
	})

	t.Run("nil limiter lets everything through", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", middleware.RateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/x", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

//go:build unit

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"library-api/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const roleHeader = "X-Test-Role"

// fakeAuth stands in for RequireAuth: any Authorization header authenticates as userID,
// with the role taken from X-Test-Role (MEMBER when absent).
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		role := user.RoleMember
		if r := c.GetHeader(roleHeader); r != "" {
			role = user.Role(r)
		}
		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Next()
	}
}

// performAs sends a body-less authenticated request carrying the given role.
func performAs(t *testing.T, router *gin.Engine, role user.Role, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set(roleHeader, role.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

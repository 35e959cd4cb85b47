package api

import (
	"errors"
	"log/slog"
	"net/http"

	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/handler/middleware"
	"library-api/internal/pkg/config"
	"library-api/internal/pkg/cookie"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var (
	errMissingUserContext = errors.New("user_id missing from context")
	errMissingRefresh     = errors.New("refresh token missing")
)

type AuthHandler struct {
	cmds commands.AuthCommands
	q    queries.UserQueries
	cfg  config.Config
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds: cmds,
		q:    q,
		cfg:  cfg,
	}
}

// @Summary Register
// @Description Create a member account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.AuthResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Register(c.Request.Context(), req.ToCommand())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.setCookies(c, result.Tokens)
	c.JSON(http.StatusCreated, resdto.FromAuthResult(result))
}

// @Summary User login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.AuthResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.setCookies(c, result.Tokens)
	c.JSON(http.StatusOK, resdto.FromAuthResult(result))
}

// @Summary Refresh tokens
// @Description Rotate the refresh token (cookie or body) and issue a new pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh request"
// @Success 200 {object} resdto.AuthResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := cookie.GetRefreshToken(c)
	if token == "" {
		var req reqdto.RefreshRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
				return
			}
		}
		token = req.RefreshToken
	}
	if token == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingRefresh, "Refresh token required", nil)
		return
	}

	result, err := h.cmds.Refresh(c.Request.Context(), token)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			cookie.ClearTokenCookies(c, h.cfg.Cookie)
		}
		abortWithUseCaseError(c, err)
		return
	}

	h.setCookies(c, result.Tokens)
	c.JSON(http.StatusOK, resdto.FromAuthResult(result))
}

// @Summary User logout
// @Description Revoke the refresh session and clear auth cookies
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	if err := h.cmds.Logout(c.Request.Context(), userID); err != nil {
		slog.Warn("Failed to revoke refresh session on logout", "user_id", userID, "error", err)
	}

	cookie.ClearTokenCookies(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.AuthUserResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuthorizedUserView(view))
}

func (h *AuthHandler) setCookies(c *gin.Context, tokens *commands.TokenPair) {
	cookie.SetTokenCookies(c, h.cfg.Cookie,
		tokens.AccessToken, tokens.RefreshToken,
		tokens.AccessExpiresIn, tokens.RefreshExpiresIn)
}

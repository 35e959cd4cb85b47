package api

import (
	"net/http"

	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/handler/middleware"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cmds commands.UserCommands
	q    queries.UserQueries
}

func NewUserHandler(cmds commands.UserCommands, q queries.UserQueries) *UserHandler {
	return &UserHandler{cmds: cmds, q: q}
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} resdto.PageResponse[resdto.UserResponse]
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query reqdto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), query.ToPageRequest())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromUserView))
}

// @Summary Library statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatsResponse
// @Router /users/stats [get]
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.q.Stats(c.Request.Context())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromStatsView(stats))
}

// @Summary Get user
// @Description User with their most recent loans
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} resdto.UserDetailResponse
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.q.GetDetail(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserDetailView(detail))
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body reqdto.UpdateUserRequest true "Name and/or role"
// @Success 200 {object} resdto.UserDetailResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if _, err := h.cmds.Update(c.Request.Context(), id, req.ToCommand()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	detail, err := h.q.GetDetail(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load user", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromUserDetailView(detail))
}

// @Summary Deactivate user
// @Description Users are never hard-deleted; their refresh session is revoked
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	if err := h.cmds.Deactivate(c.Request.Context(), id, actorID); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

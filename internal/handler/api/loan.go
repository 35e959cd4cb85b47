package api

import (
	"net/http"

	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/handler/middleware"
	"library-api/internal/pkg/clock"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoanHandler struct {
	cmds  commands.LoanCommands
	q     queries.LoanQueries
	clock clock.Clock
}

func NewLoanHandler(cmds commands.LoanCommands, q queries.LoanQueries, clk clock.Clock) *LoanHandler {
	return &LoanHandler{cmds: cmds, q: q, clock: clk}
}

// @Summary Check out a book
// @Description Borrow one copy for the current user. Due date defaults to the loan period.
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.LoanResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /loans/checkout [post]
func (h *LoanHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	l, err := h.cmds.Checkout(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondWithLoan(c, http.StatusCreated, l.ID())
}

// @Summary Return a loan
// @Description Members may only return their own loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} resdto.LoanResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /loans/{id}/return [patch]
func (h *LoanHandler) Return(c *gin.Context) {
	loanID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, okID := middleware.GetUserID(c)
	role, okRole := middleware.GetUserRole(c)
	if !okID || !okRole {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	if _, err := h.cmds.Return(c.Request.Context(), loanID, userID, role); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondWithLoan(c, http.StatusOK, loanID)
}

// @Summary My loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "ACTIVE, OVERDUE or RETURNED"
// @Success 200 {object} resdto.PageResponse[resdto.LoanResponse]
// @Failure 400 {object} httperr.Response
// @Router /loans/my [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, msgInternal, nil)
		return
	}

	var query reqdto.ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	status, err := query.ParseStatus()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid loan status", nil)
		return
	}

	page, err := h.q.ListByUser(c.Request.Context(), userID, status, query.ToPageRequest())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromLoanView))
}

// @Summary List all loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "ACTIVE, OVERDUE or RETURNED"
// @Param userId query string false "Borrower ID"
// @Success 200 {object} resdto.PageResponse[resdto.LoanResponse]
// @Failure 400 {object} httperr.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	var query reqdto.ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid loan filter", nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), filter, query.ToPageRequest())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromLoanView))
}

// @Summary Mark overdue loans
// @Description Flags every ACTIVE loan past its due date as OVERDUE
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Router /loans/check-overdue [post]
func (h *LoanHandler) CheckOverdue(c *gin.Context) {
	n, err := h.cmds.SweepOverdue(c.Request.Context(), h.clock.Now())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.SweepResponse{Updated: n})
}

func (h *LoanHandler) respondWithLoan(c *gin.Context, status int, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load loan", nil)
		return
	}
	c.JSON(status, resdto.FromLoanView(view))
}

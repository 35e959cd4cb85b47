package api

import (
	"net/http"

	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	cmds commands.SummaryCommands
	q    queries.BookQueries
}

func NewSummaryHandler(cmds commands.SummaryCommands, q queries.BookQueries) *SummaryHandler {
	return &SummaryHandler{cmds: cmds, q: q}
}

// @Summary Generate book summary
// @Description Generates a description with the configured model and stores it on the book
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SummaryRequest true "Book to summarize"
// @Success 200 {object} resdto.SummaryResponse
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /ai/summary [post]
func (h *SummaryHandler) Generate(c *gin.Context) {
	var req reqdto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.GenerateSummary(c.Request.Context(), req.BookID)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrSummaryNotConfigured):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "AI summary is not configured", nil)
		case errs.Is(err, commands.ErrSummaryUpstream):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "AI summary generation failed", nil)
		default:
			abortWithUseCaseError(c, err)
		}
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), result.Book.ID())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load book", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.SummaryResponse{
		Book:       resdto.FromBookView(view),
		Summary:    result.Summary,
		TokensUsed: result.TokensUsed,
	})
}

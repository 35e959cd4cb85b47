package api

import (
	"net/http"

	reqdto "library-api/internal/handler/dto/request"
	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	cmds commands.BookCommands
	q    queries.BookQueries
}

func NewBookHandler(cmds commands.BookCommands, q queries.BookQueries) *BookHandler {
	return &BookHandler{cmds: cmds, q: q}
}

// @Summary List books
// @Description Paginated catalog, newest first
// @Tags books
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param search query string false "Matches title, author, isbn, description"
// @Param genre query string false "Genre"
// @Success 200 {object} resdto.PageResponse[resdto.BookResponse]
// @Failure 400 {object} httperr.Response
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	var query reqdto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), query.ToFilter(), query.ToPageRequest())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromBookView))
}

// @Summary Search books
// @Description Case-insensitive match on title, author, isbn and tags (max 20)
// @Tags books
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Router /books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var query reqdto.SearchBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Search term is required", nil)
		return
	}

	views, err := h.q.Search(c.Request.Context(), query.Q)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookViews(views))
}

// @Summary Get book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookView(view))
}

// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookRequest true "Book"
// @Success 201 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	b, err := h.cmds.Create(c.Request.Context(), req.ToCommand())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondWithBook(c, http.StatusCreated, b.ID())
}

// @Summary Update book
// @Description Partial update; changing copies shifts available by the same amount
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Fields to change"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if _, err := h.cmds.Update(c.Request.Context(), id, req.ToCommand()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondWithBook(c, http.StatusOK, id)
}

// @Summary Delete book
// @Description Books with loan history cannot be deleted
// @Tags books
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cmds.Delete(c.Request.Context(), id); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookHandler) respondWithBook(c *gin.Context, status int, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load book", nil)
		return
	}
	c.JSON(status, resdto.FromBookView(view))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"library-api/internal/domain/user"
	"library-api/internal/handler/api"
	"library-api/internal/handler/middleware"
	"library-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Book    *api.BookHandler
	Loan    *api.LoanHandler
	User    *api.UserHandler
	Summary *api.SummaryHandler
}

// NewRouter wires middleware and routes. limiter may be nil, which disables rate limiting.
func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter middleware.RateLimiter) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := authMiddleware.RequireRoleAtLeast(user.RoleLibrarian)
	admin := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.RateLimit(limiter))
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		books := apiGroup.Group("/books")
		{
			addRoutes(books, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Book.List},
				{Method: http.MethodGet, Path: "/search", Handler: h.Book.Search},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Book.Get},
			})

			manage := books.Group("")
			manage.Use(authMiddleware.RequireAuth())
			addRoutes(manage, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Book.Create, Mw: []gin.HandlerFunc{staff}},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Book.Update, Mw: []gin.HandlerFunc{staff}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Book.Delete, Mw: []gin.HandlerFunc{admin}},
			})
		}

		loans := apiGroup.Group("/loans")
		loans.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loans, []route{
				{Method: http.MethodPost, Path: "/checkout", Handler: h.Loan.Checkout},
				{Method: http.MethodPatch, Path: "/:id/return", Handler: h.Loan.Return},
				{Method: http.MethodGet, Path: "/my", Handler: h.Loan.MyLoans},
				{Method: http.MethodGet, Path: "", Handler: h.Loan.List, Mw: []gin.HandlerFunc{staff}},
				{Method: http.MethodPost, Path: "/check-overdue", Handler: h.Loan.CheckOverdue, Mw: []gin.HandlerFunc{staff}},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(authMiddleware.RequireAuth(), admin)
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "", Handler: h.User.List},
				{Method: http.MethodGet, Path: "/stats", Handler: h.User.Stats},
				{Method: http.MethodGet, Path: "/:id", Handler: h.User.Get},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.User.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.User.Deactivate},
			})
		}

		ai := apiGroup.Group("/ai")
		ai.Use(authMiddleware.RequireAuth(), staff)
		{
			addRoutes(ai, []route{
				{Method: http.MethodPost, Path: "/summary", Handler: h.Summary.Generate},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

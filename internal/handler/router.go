package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/handler/api"
	"turf-reservation/internal/handler/middleware"
	"turf-reservation/internal/infra/ratelimit"
	"turf-reservation/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine             *gin.Engine
	Config             config.Config
	Logger             *middleware.Logger
	AuthHandler        *api.AuthHandler
	ResourceHandler    *api.ResourceHandler
	ReservationHandler *api.ReservationHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Limiter            ratelimit.Limiter `optional:"true"`
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
	engine.NoRoute(middleware.NoRoute())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	authMw := p.AuthMiddleware

	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		auth.Use(middleware.RateLimit(p.Limiter, "auth"))
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: p.AuthHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: p.AuthHandler.Refresh},
				{Method: http.MethodPost, Path: "/revoke", Handler: p.AuthHandler.Revoke},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMw.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me},
			})
		}

		resources := apiGroup.Group("/resources")
		resources.Use(authMw.OptionalAuth())
		{
			addRoutes(resources, []route{
				{Method: http.MethodGet, Path: "", Handler: p.ResourceHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.ResourceHandler.Get},
				{Method: http.MethodGet, Path: "/:id/slots", Handler: p.ResourceHandler.Slots},
			})
		}

		bookingLimit := middleware.RateLimit(p.Limiter, "reservations")
		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMw.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: p.ReservationHandler.Create, Mw: []gin.HandlerFunc{bookingLimit}},
				{Method: http.MethodGet, Path: "", Handler: p.ReservationHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.ReservationHandler.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: p.ReservationHandler.Cancel, Mw: []gin.HandlerFunc{bookingLimit}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMw.RequireAuth(), authMw.RequireRole(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/reservations/:id/confirm", Handler: p.ReservationHandler.Confirm},
				{Method: http.MethodPost, Path: "/reservations/:id/complete", Handler: p.ReservationHandler.Complete},
				{Method: http.MethodPut, Path: "/reservations/:id/payment", Handler: p.ReservationHandler.RecordPayment},
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

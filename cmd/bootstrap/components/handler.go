package components

import (
	"turf-reservation/internal/handler"
	"turf-reservation/internal/handler/api"
	"turf-reservation/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func() *gin.Engine {
			return gin.New()
		},
		api.NewAuthHandler,
		api.NewResourceHandler,
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

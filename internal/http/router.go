package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"livefeed/internal/auth"
	"livefeed/internal/config"
	"livefeed/internal/http/controller"
	"livefeed/internal/http/middleware"
	"livefeed/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, verifier *auth.Verifier, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger, "/health", "/metrics"),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/v1", middleware.RequireAuth(verifier, logger))
	{
		v1.GET("/notifications", handler.ListNotifications)
		v1.GET("/notifications/unread-count", handler.UnreadCount)
		v1.POST("/notifications/read", handler.MarkRead)
		v1.POST("/notifications/read-all", handler.MarkAllRead)
		v1.GET("/notifications/stream", handler.Stream)

		v1.GET("/preferences/live-filters", handler.GetLiveFilters)
		v1.PUT("/preferences/live-filters", handler.PutLiveFilters)

		v1.PUT("/reactions/:kind/:id", handler.SetReaction)
		v1.DELETE("/reactions/:kind/:id", handler.SetReaction)
		v1.POST("/posts/:id/comments", handler.CreateComment)
	}

	return router
}

package server

import (
	"net/http"
	"time"

	ginhandler "users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	ginrouter "users-api/internal/adapter/gin/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	userHandler *ginhandler.UserHandler,
	healthHandler *ginhandler.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	swaggerEnabled bool,
	addr string,
	l *zap.Logger,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := ginrouter.SetupRouter(userHandler, healthHandler, ginrouter.Options{
		RateLimiter:    rateLimiter,
		SwaggerEnabled: swaggerEnabled,
	}, l)

	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Bool("rate_limit", rateLimiter != nil),
		zap.Bool("swagger", swaggerEnabled),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

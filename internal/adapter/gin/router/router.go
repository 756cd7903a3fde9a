package router

import (
	"net/http"
	"time"

	"users-api/api"
	"users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Options toggles the optional parts of the router.
type Options struct {
	// RateLimiter is applied to every route when non-nil.
	RateLimiter *middleware.RateLimiter
	// SwaggerEnabled serves /openapi.json and the UI under /swagger/.
	SwaggerEnabled bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))
	router.Use(cors.New(corsConfig()))
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}

	router.GET("/health", healthHandler.Health)

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		// bare DELETE /users reaches the handler so a missing id is a 400
		users.DELETE("", userHandler.DeleteUser)
		users.DELETE("/:userId", userHandler.DeleteUser)
	}

	if opts.SwaggerEnabled {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", api.SwaggerJSON)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/openapi.json"),
		)))
	}

	return router
}

// corsConfig reflects any request origin back to the caller.
func corsConfig() cors.Config {
	return cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:   []string{logger.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}
}

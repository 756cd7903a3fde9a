package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	ginhandler "users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/config"

	"go.uber.org/zap"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	userHandler *ginhandler.UserHandler,
	healthHandler *ginhandler.HealthHandler,
	rateLimiter *middleware.RateLimiter,
) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: SetupGinServer(
			userHandler,
			healthHandler,
			rateLimiter,
			cfg.App.SwaggerEnabled,
			cfg.App.Address(),
			l,
		),
	}
}

// Start binds the listener and serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}

	s.Logger.Info("Server running.", zap.String("address", lis.Addr().String()))

	if err := s.HTTP.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}

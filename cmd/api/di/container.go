package di

import (
	"context"
	"fmt"
	"time"

	"users-api/cmd/api/infrastructure"
	"users-api/internal/adapter/cache"
	"users-api/internal/adapter/db/gormstore"
	ginhandler "users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/adapter/repository/cached"
	"users-api/internal/config"
	"users-api/internal/usecase/user"
	redisclient "users-api/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client
	UserUC        *user.Usecase
	RateLimiter   *middleware.RateLimiter
	UserHandler   *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: l,
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	dbRepo := gormstore.NewUserRepo(db, l)
	var repo user.Repository = dbRepo

	// Redis backs the list cache and the rate limiter; both are optional
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(dbRepo, userCache, l)

		if cfg.RateLimit.Enabled {
			c.RateLimiter = middleware.NewRateLimiter(
				rdb.Client,
				middleware.RateLimiterConfig{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					BurstCapacity:     cfg.RateLimit.BurstCapacity,
					Enabled:           cfg.RateLimit.Enabled,
				},
				l,
			)
		}
	}

	// Initialize use case
	c.UserUC = user.New(repo, l)

	// Initialize Gin handlers
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.HealthHandler = ginhandler.NewHealthHandler(dbRepo, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}

package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection configuration.
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
}

// Addr returns the host:port of the server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Options converts the configuration into go-redis options.
func (c Config) Options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConn,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Client wraps redis.Client with lifecycle logging.
type Client struct {
	*redis.Client
	log *zap.Logger
}

// NewClient creates a new Redis client and verifies connectivity with a ping.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(cfg.Options())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	log.Info("Redis connected successfully",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return &Client{
		Client: rdb,
		log:    log,
	}, nil
}

// Close gracefully closes the Redis connection.
func (c *Client) Close() error {
	c.log.Info("Closing Redis connection")
	return c.Client.Close()
}

package middleware

import (
	"fmt"
	"net/http"
	"time"

	"users-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// Token Bucket algorithm implemented in Lua for atomicity.
// Bucket state is a hash of {last_refill, tokens}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])         -- tokens per second
	local capacity = tonumber(ARGV[2])     -- max tokens in bucket
	local now = tonumber(ARGV[3])          -- current timestamp (seconds)
	local requested = tonumber(ARGV[4])    -- tokens requested

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	local allowed = 0
	if tokens >= requested then
		tokens = tokens - requested
		allowed = 1
	end

	redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
	redis.call('EXPIRE', key, 60)
	return allowed
`)

// RateLimiter implements per-client HTTP rate limiting backed by Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Middleware returns a Gin middleware enforcing the token bucket per method, path and client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, route, clientIP)

		now := float64(rl.now().UnixNano()) / float64(time.Second)

		allowed, err := tokenBucket.Run(c.Request.Context(), rl.client, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			now,
			1,
		).Int64()
		if err != nil {
			// fail open
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Float64("limit", rl.config.RequestsPerSecond),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", rl.config.RequestsPerSecond, rl.config.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}

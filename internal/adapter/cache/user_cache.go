package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "users-api/internal/domain/user"
)

const (
	// ListKey is the Redis key holding the serialized user list.
	ListKey = "users:all"
	// GenerationKey counts invalidations; a list loaded under an older
	// generation is never written back.
	GenerationKey = "users:gen"
)

// setIfGeneration writes the list only while the generation is unchanged.
var setIfGeneration = redis.NewScript(`
	local current = redis.call('GET', KEYS[2])
	if (current or '0') ~= ARGV[1] then
		return 0
	end
	if tonumber(ARGV[3]) > 0 then
		redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	else
		redis.call('SET', KEYS[1], ARGV[2])
	end
	return 1
`)

// UserCache defines the interface for caching the full user list.
type UserCache interface {
	// GetAll returns the cached list. found is false on a cache miss.
	GetAll(ctx context.Context) (users []domain.User, found bool, err error)

	// Generation returns the current invalidation counter.
	Generation(ctx context.Context) (int64, error)

	// SetAll stores the list with the configured TTL if gen is still current.
	// stored is false when an invalidation happened in between.
	SetAll(ctx context.Context, gen int64, users []domain.User) (stored bool, err error)

	// Invalidate drops the cached list and bumps the generation.
	Invalidate(ctx context.Context) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cachedUser is the wire shape stored in Redis, decoupled from the domain struct.
type cachedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetAll retrieves the user list from Redis.
func (c *RedisUserCache) GetAll(ctx context.Context) ([]domain.User, bool, error) {
	data, err := c.client.Get(ctx, ListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("key", ListKey))
		return nil, false, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("key", ListKey), zap.Error(err))
		return nil, false, err
	}

	var entries []cachedUser
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Error("failed to unmarshal cached users", zap.String("key", ListKey), zap.Error(err))
		return nil, false, err
	}

	users := make([]domain.User, len(entries))
	for i, e := range entries {
		users[i] = domain.User{ID: e.ID, Name: e.Name, Email: e.Email}
	}

	c.log.Debug("cache hit", zap.String("key", ListKey), zap.Int("count", len(users)))
	return users, true, nil
}

// Generation reads the invalidation counter; an absent key is generation 0.
func (c *RedisUserCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.log.Error("failed to read cache generation", zap.Error(err))
		return 0, err
	}
	return gen, nil
}

// SetAll stores the user list in Redis with TTL, unless the generation moved past gen.
func (c *RedisUserCache) SetAll(ctx context.Context, gen int64, users []domain.User) (bool, error) {
	entries := make([]cachedUser, len(users))
	for i, u := range users {
		entries[i] = cachedUser{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		c.log.Error("failed to marshal users for cache", zap.Error(err))
		return false, err
	}

	stored, err := setIfGeneration.Run(ctx, c.client, []string{ListKey, GenerationKey},
		strconv.FormatInt(gen, 10), data, c.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		c.log.Error("failed to set cache", zap.String("key", ListKey), zap.Error(err))
		return false, err
	}
	if stored == 0 {
		c.log.Debug("skipped stale cache write", zap.Int64("generation", gen))
		return false, nil
	}

	c.log.Debug("cached users", zap.Int("count", len(users)), zap.Duration("ttl", c.ttl))
	return true, nil
}

// Invalidate removes the cached list and bumps the generation in one transaction.
func (c *RedisUserCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, ListKey)
		return nil
	})
	if err != nil {
		c.log.Error("failed to delete from cache", zap.String("key", ListKey), zap.Error(err))
		return err
	}

	c.log.Debug("invalidated cache", zap.String("key", ListKey))
	return nil
}

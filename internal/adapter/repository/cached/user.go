package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"users-api/internal/adapter/cache"
	domain "users-api/internal/domain/user"
	"users-api/internal/usecase/user"
)

// UserRepository implements user.Repository with a cached List.
// It wraps a persistent repository (DB) and a cache implementation.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create inserts through the DB repository and invalidates the cached list.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	id, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return "", err
	}

	r.invalidate(ctx, "create")
	return id, nil
}

// List returns the cached list, loading it from the database on a miss.
// A load only populates the cache if no create or delete invalidated it meanwhile.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	if r.cache == nil {
		return r.dbRepo.List(ctx)
	}

	users, found, err := r.cache.GetAll(ctx)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Error(err))
		return r.dbRepo.List(ctx)
	}
	if found {
		return users, nil
	}

	gen, err := r.cache.Generation(ctx)
	if err != nil {
		r.log.Warn("cache generation error, falling back to database", zap.Error(err))
		return r.dbRepo.List(ctx)
	}

	// Cache miss - collapse concurrent loads of the same generation
	key := fmt.Sprintf("%s:%d", cache.ListKey, gen)
	result, err, _ := r.group.Do(key, func() (any, error) {
		users, err := r.dbRepo.List(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := r.cache.SetAll(ctx, gen, users); err != nil {
			r.log.Warn("failed to cache users", zap.Error(err))
		}

		return users, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]domain.User), nil
}

// Delete deletes through the DB repository and invalidates the cached list
// when a row was actually removed.
func (r *UserRepository) Delete(ctx context.Context, id string) (domain.DeleteResult, error) {
	result, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return domain.DeleteResult{}, err
	}

	if result.Status == domain.DeleteStatusDeleted {
		r.invalidate(ctx, "delete")
	}

	return result, nil
}

func (r *UserRepository) invalidate(ctx context.Context, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.Error(err))
	}
}

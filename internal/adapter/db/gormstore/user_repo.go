package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"users-api/internal/domain/user"
	"users-api/pkg/logger"
)

// UserRepo implements the user Repository interface on top of GORM.
// It works with any GORM dialector; production uses Postgres or SQLite.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    string `gorm:"primaryKey;type:varchar(36)"` // UUID assigned in BeforeCreate
	Name  string `gorm:"not null"`                    // May be empty but never NULL
	Email string `gorm:"not null"`                    // No unique index, duplicates are allowed
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns a fresh UUID when the caller did not provide one.
func (s *UserSchema) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (s UserSchema) toDomain() user.User {
	return user.User{
		ID:    s.ID,
		Name:  s.Name,
		Email: s.Email,
	}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user into the database and returns its generated ID.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}
	log := logger.WithContext(ctx, r.log)

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		log.Error("failed to create user in db", zap.Error(err))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created in db", zap.String("id", model.ID))
	return model.ID, nil
}

// List retrieves every user. No ORDER BY is applied, so the order is the store's.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		logger.WithContext(ctx, r.log).Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}

	return users, nil
}

// Delete removes a user by ID. The lookup and the delete share one transaction
// so the removed record can be returned; a missing row yields user.NotFound().
// A concurrent delete that wins between the lookup and the delete leaves
// nothing to remove, which is also reported as not found.
func (r *UserRepo) Delete(ctx context.Context, id string) (user.DeleteResult, error) {
	log := logger.WithContext(ctx, r.log)

	var removed UserSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&removed).Error; err != nil {
			return err
		}
		res := tx.Delete(&removed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	switch {
	case err == nil:
		log.Info("user deleted in db", zap.String("id", id))
		u := removed.toDomain()
		return user.Deleted(&u), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Debug("user not found for delete", zap.String("id", id))
		return user.NotFound(), nil
	default:
		log.Error("failed to delete user in db", zap.Error(err), zap.String("id", id))
		return user.DeleteResult{}, fmt.Errorf("failed to delete user: %w", err)
	}
}

// Ping verifies that the database is reachable.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

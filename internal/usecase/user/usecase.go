package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
	"users-api/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It is the persistence gateway: the only path from the use case to storage.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)         // Insert a user, returning the assigned ID
	List(ctx context.Context) ([]domain.User, error)                    // Every stored user, in store order
	Delete(ctx context.Context, id string) (domain.DeleteResult, error) // Remove by ID; missing rows are a result, not an error
}

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var (
		fields   []string
		messages []string
	)
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	field := ""
	if len(fields) == 1 {
		field = fields[0]
	}
	return apperrors.NewValidationError(field, strings.Join(messages, ", "))
}

// ListUsers returns every stored user. There is no filtering or paging.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}

	log.Debug("listed users", zap.Int("count", len(users)))
	return &ListUsersResponse{Users: users}, nil
}

// CreateUser validates the request and persists a new user. The store assigns the ID.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Debug("creating user")

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return &CreateUserResponse{ID: id}, nil
}

// DeleteUser removes a user by ID and reports whether it existed.
// Only storage failures other than "not found" come back as an error.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("delete user validation failed", zap.String("id", in.ID), zap.Error(err))
		return nil, formatValidationError(err)
	}

	result, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	resp := &DeleteUserResponse{Status: result.Status}
	switch result.Status {
	case domain.DeleteStatusDeleted:
		if result.User != nil {
			u := toDTO(*result.User)
			resp.User = &u
		}
	case domain.DeleteStatusNotFound:
		log.Info("user to delete not found", zap.String("id", in.ID))
	default:
		return nil, fmt.Errorf("unexpected delete status %d for user %s", result.Status, in.ID)
	}

	return resp, nil
}

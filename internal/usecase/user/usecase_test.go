package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	domain "users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) (domain.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DeleteResult), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t))
	return uc, mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "" && u.Name == req.Name && u.Email == req.Email
	})).Return("8f14e45f-ceea-4e7a-9d4f-2f0a1c1d7b11", nil)

	resp, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "8f14e45f-ceea-4e7a-9d4f-2f0a1c1d7b11", resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_DoesNotLogPersonalData(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zap.New(core))
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return("id", nil)

	_, err := uc.CreateUser(ctx, CreateUserRequest{Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)

	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "john@example.com")
			assert.NotContains(t, fmt.Sprint(v), "John Doe")
		}
		assert.NotContains(t, entry.Message, "john@example.com")
	}
}

func TestCreateUser_EmptyNameAllowed(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return("id-1", nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "", Email: "anon@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "id-1", resp.ID)
}

func TestCreateUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateUserRequest
		errorMsg string
	}{
		{
			name:     "email required",
			req:      CreateUserRequest{Name: "John Doe"},
			errorMsg: "Email is required",
		},
		{
			name:     "email malformed",
			req:      CreateUserRequest{Name: "John Doe", Email: "not-an-email"},
			errorMsg: "Email must be a valid email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			resp, err := uc.CreateUser(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.errorMsg)

			var validationErr *apperrors.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "Email", validationErr.Field)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	dbErr := errors.New("database connection failed")

	mockRepo.On("Create", ctx, mock.Anything).Return("", dbErr)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "John", Email: "john@example.com"})

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, resp)
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: "a", Name: "Ada", Email: "ada@example.com"},
		{ID: "b", Name: "Bob", Email: "bob@example.com"},
	}, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: "a", Name: "Ada", Email: "ada@example.com"},
		{ID: "b", Name: "Bob", Email: "bob@example.com"},
	}, resp.Users)
}

func TestListUsers_EmptyStore(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("timeout"))

	resp, err := uc.ListUsers(ctx)

	assert.Error(t, err)
	assert.Nil(t, resp)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Deleted(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	removed := &domain.User{ID: "a", Name: "Ada", Email: "ada@example.com"}
	mockRepo.On("Delete", ctx, "a").Return(domain.Deleted(removed), nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "a"})

	require.NoError(t, err)
	assert.Equal(t, domain.DeleteStatusDeleted, resp.Status)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "missing").Return(domain.NotFound(), nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "missing"})

	require.NoError(t, err)
	assert.Equal(t, domain.DeleteStatusNotFound, resp.Status)
	assert.Nil(t, resp.User)
}

func TestDeleteUser_MissingID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	resp, err := uc.DeleteUser(context.Background(), DeleteUserRequest{})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "ID is required")
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	mockRepo.On("Delete", ctx, "a").Return(domain.DeleteResult{}, dbErr)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "a"})

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, resp)
}

func TestDeleteUser_UnknownStatus(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "a").Return(domain.DeleteResult{}, nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "a"})

	assert.Error(t, err)
	assert.Nil(t, resp)
}

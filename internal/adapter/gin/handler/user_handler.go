package handler

import (
	"errors"
	"net/http"

	domain "users-api/internal/domain/user"
	"users-api/internal/usecase/user"
	apperrors "users-api/pkg/errors"
	"users-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserNotFoundMessage is the plain-text body returned when a delete misses.
const UserNotFoundMessage = "User not found."

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Pointers let "required" tell an absent field from an empty string.
type CreateUserRequest struct {
	Name  *string `json:"name" binding:"required"`
	Email *string `json:"email" binding:"required,email"`
}

// DeleteUserURI binds the path parameters of DELETE /users/:userId
type DeleteUserURI struct {
	UserID string `uri:"userId" binding:"required"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		log.Error("ListUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}

	c.JSON(http.StatusOK, ListUsersResponse{Users: users})
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	_, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		log.Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteUser handles DELETE /users/:userId
func (h *UserHandler) DeleteUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var uri DeleteUserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		log.Warn("Invalid delete user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	log.Info("DeleteUser request", zap.String("id", uri.UserID))

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: uri.UserID})
	if err != nil {
		log.Error("DeleteUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	switch resp.Status {
	case domain.DeleteStatusDeleted:
		c.Status(http.StatusNoContent)
	case domain.DeleteStatusNotFound:
		c.String(http.StatusNotFound, UserNotFoundMessage)
	default:
		log.Error("DeleteUser returned unknown status", zap.Stringer("status", resp.Status))
		h.handleError(c, apperrors.NewInternalError("unknown delete status", nil))
	}
}

// handleError converts usecase errors to appropriate HTTP responses.
// Anything that does not describe itself is reported as a generic 500.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var httpErr apperrors.HTTPError
	if errors.As(err, &httpErr) && httpErr.HTTPStatus() < http.StatusInternalServerError {
		c.JSON(httpErr.HTTPStatus(), ErrorResponse{
			Error:   httpErr.Code(),
			Message: httpErr.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

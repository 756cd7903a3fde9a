package user

import domain "users-api/internal/domain/user"

// CreateUserRequest represents the request payload for creating a new user.
// Name carries no constraint beyond being present, which the transport checks.
type CreateUserRequest struct {
	Name  string
	Email string `validate:"required,email"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string `validate:"required"`
}

// DeleteUserResponse carries the tagged outcome of a delete.
type DeleteUserResponse struct {
	Status domain.DeleteStatus
	User   *User
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    string
	Name  string
	Email string
}

func toDTO(u domain.User) User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

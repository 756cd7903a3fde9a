package user

// User represents a user entity in the system.
type User struct {
	ID    string // ID is the store-assigned identifier, immutable once set
	Name  string // Name is free text, may be empty
	Email string // Email is the address validated at the HTTP boundary
}

package user

// CreateUserRequest represents the input payload for creating a user or
// fully replacing an existing one. It never carries an ID; identifiers
// are assigned by the store.
type CreateUserRequest struct {
	FirstName string `validate:"required,min=2,max=50"`
	LastName  string `validate:"required,min=2,max=50"`
	Email     string `validate:"required,email,max=100"`
	Address   string `validate:"omitempty,max=200"`
}

// UserResponse represents the output payload for a stored user.
type UserResponse struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Address   string
}

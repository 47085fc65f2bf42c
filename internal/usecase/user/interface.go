package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, id int64, in CreateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (*UserResponse, error)
	SearchUsers(ctx context.Context, firstName, lastName string) ([]UserResponse, error)
	GetUsersByEmailDomain(ctx context.Context, domain string) ([]UserResponse, error)
	ImportUsers(ctx context.Context, in []CreateUserRequest) ([]UserResponse, error)
}

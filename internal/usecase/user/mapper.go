package user

import (
	domain "user-directory-service/internal/domain/user"
)

// toEntity converts a create request into a domain entity with no ID set.
// A nil request maps to a nil entity.
func toEntity(in *CreateUserRequest) *domain.User {
	if in == nil {
		return nil
	}
	return &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Address:   in.Address,
	}
}

// toResponse converts a domain entity into a response DTO, copying all
// fields including the ID. A nil entity maps to a nil response.
func toResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
	}
}

// toResponses converts a slice of entities, preserving order.
func toResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *toResponse(&users[i])
	}
	return out
}

package dto

import "reviewhub/internal/entity"

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

type UserResponse struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  *string `json:"username"`
	Bio       string  `json:"bio"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
}

func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Bio:       user.Bio,
		Email:     user.Email,
		Role:      string(user.Role),
	}
}

func NewUserResponses(users []*entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

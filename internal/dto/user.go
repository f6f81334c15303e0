package dto

import (
	"time"

	"github.com/yukikurage/task-api/internal/models"
)

// UserDTO represents a user in API responses. It has no password field.
type UserDTO struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Roles     []models.Role `json:"roles"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// LoginResponse is the user record with the issued token alongside.
type LoginResponse struct {
	UserDTO
	Token string `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	roles := user.Roles
	if roles == nil {
		roles = []models.Role{}
	}
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToLoginResponse flattens the user and token into one object
func ToLoginResponse(user models.User, token string) LoginResponse {
	return LoginResponse{
		UserDTO: ToUserDTO(user),
		Token:   token,
	}
}

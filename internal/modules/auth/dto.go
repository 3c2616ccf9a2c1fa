package auth

import "rentanything/internal/domain"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Image           *string `json:"image" binding:"omitempty,max=2048"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" binding:"omitempty,min=6,max=72"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *domain.User `json:"user"`
}

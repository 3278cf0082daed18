package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterResponse struct {
	ID       uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	UserID      uuid.UUID `json:"userId" validate:"required" swaggertype:"string" format:"uuid"`
	Token       string    `json:"token" validate:"required"`
	NewPassword string    `json:"newPassword" validate:"required,min=8,max=72"`
}

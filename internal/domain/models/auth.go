package models

import "github.com/google/uuid"

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Principal описывает аутентифицированного пользователя текущего запроса.
type Principal struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func (p Principal) HasRole(role string) bool {
	return p.Role == role
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

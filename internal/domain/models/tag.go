package models

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Color     *string   `db:"color" json:"color,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

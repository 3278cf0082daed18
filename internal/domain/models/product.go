package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	// ImageRef - ссылка в хранилище изображений, подписанный URL строится при чтении.
	ImageRef  string    `db:"image_url" json:"imageUrl"`
	Category  string    `db:"category" json:"category"`
	Stock     int       `db:"stock" json:"stock"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Tags      []Tag     `json:"tags"`
	Colors    []string  `db:"colors" json:"colors"`
}

// ProductView - запись журнала просмотров, только добавление.
type ProductView struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ProductID uuid.UUID  `db:"product_id" json:"productId"`
	ViewedAt  time.Time  `db:"viewed_at" json:"viewedAt"`
	UserID    *uuid.UUID `db:"user_id" json:"userId,omitempty"`
	SessionID string     `db:"session_id" json:"sessionId,omitempty"`
}

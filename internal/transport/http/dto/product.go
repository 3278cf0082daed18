package dto

import (
	"time"

	"storefront/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Category    string          `json:"category" validate:"max=100"`
	Stock       int             `json:"stock" validate:"min=0"`
	TagIDs      []uuid.UUID     `json:"tagIds" swaggertype:"array,string"`
	Colors      []string        `json:"colors" validate:"omitempty,max=20,dive,required,max=50"`
}

type ProductResponse struct {
	ID          uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	Tags        []models.Tag    `json:"tags"`
	Colors      []string        `json:"colors"`
}

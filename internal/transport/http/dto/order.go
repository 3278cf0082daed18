package dto

import "github.com/google/uuid"

type CreateOrderRequest struct {
	CustomerName       string             `json:"customerName" validate:"required,max=200"`
	CustomerEmail      string             `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone      string             `json:"customerPhone" validate:"max=50"`
	ShippingAddress    string             `json:"shippingAddress" validate:"required,max=500"`
	ShippingCity       string             `json:"shippingCity" validate:"required,max=100"`
	ShippingPostalCode string             `json:"shippingPostalCode" validate:"max=20"`
	ShippingCountry    string             `json:"shippingCountry" validate:"required,max=100"`
	Items              []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required" swaggertype:"string" format:"uuid"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

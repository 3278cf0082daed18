package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы заказа. Это соглашение, а не перечисление: в базе хранится произвольная строка.
const (
	OrderStatusNew        = "New"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

type Order struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	CustomerName    string          `db:"customer_name" json:"customerName"`
	CustomerEmail   string          `db:"customer_email" json:"customerEmail"`
	CustomerPhone   string          `db:"customer_phone" json:"customerPhone"`
	ShippingAddress string          `db:"shipping_address" json:"shippingAddress"`
	ShippingCity    string          `db:"shipping_city" json:"shippingCity"`
	ShippingPostal  string          `db:"shipping_postal_code" json:"shippingPostalCode"`
	ShippingCountry string          `db:"shipping_country" json:"shippingCountry"`
	Status          string          `db:"status" json:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"totalAmount"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem хранит снимок названия и цены товара на момент заказа.
type OrderItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	OrderID     uuid.UUID       `db:"order_id" json:"orderId"`
	ProductID   uuid.UUID       `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

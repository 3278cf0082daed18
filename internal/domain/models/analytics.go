package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderSummary struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type DailySales struct {
	Date        string          `json:"date"`
	OrdersCount int             `json:"ordersCount"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type ProductRank struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Value       int64     `json:"value"`
}

// OrderFact - минимальный набор полей заказа для агрегаций.
type OrderFact struct {
	ID          uuid.UUID
	Status      string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// ProductCount - значение по товару (проданное количество или число просмотров).
type ProductCount struct {
	ProductID   uuid.UUID
	ProductName string
	Count       int64
}

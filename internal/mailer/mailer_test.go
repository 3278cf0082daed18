package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderConfirmation(t *testing.T) {
	order := models.Order{
		ID:              uuid.MustParse("9b2e0f4e-4b0e-4bb0-9a51-0d0f5e1d7c11"),
		CustomerName:    "Anna",
		ShippingAddress: "Kwiatowa 1",
		ShippingCity:    "Krakow",
		ShippingPostal:  "30-001",
		ShippingCountry: "PL",
		TotalAmount:     decimal.RequireFromString("20"),
		Items: []models.OrderItem{
			{ProductName: "Rose", Price: decimal.RequireFromString("10"), Quantity: 2},
		},
	}

	subject, body, err := OrderConfirmation(order)
	require.NoError(t, err)

	assert.Contains(t, subject, order.ID.String())
	assert.Contains(t, body, "Hello Anna")
	assert.Contains(t, body, "Rose x 2: 20.00")
	assert.Contains(t, body, "Total: 20.00")
	assert.Contains(t, body, "30-001 Krakow")
}

func TestPasswordReset(t *testing.T) {
	subject, body, err := PasswordReset(PasswordResetData{
		Username: "jane",
		Link:     "http://localhost:3000/reset-password?token=abc",
		TTL:      "1h0m0s",
	})
	require.NoError(t, err)

	assert.Equal(t, "Password reset", subject)
	assert.Contains(t, body, "Hello jane")
	assert.Contains(t, body, "token=abc")
	assert.Contains(t, body, "1h0m0s")
}

func TestNoopMailer_Send(t *testing.T) {
	m := NewNoopMailer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, m.Send(context.Background(), "john@example.com", "subject", "body"))
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"storefront/internal/domain/models"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order models.Order) (uuid.UUID, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (models.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, page models.PageRequest) ([]models.Order, int, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// MockProductRepository покрывает только то, что нужно заказам.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product models.Product) (uuid.UUID, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) SetProductImage(ctx context.Context, productID uuid.UUID, ref string) error {
	return m.Called(ctx, productID, ref).Error(0)
}

func (m *MockProductRepository) RecordView(ctx context.Context, view models.ProductView) error {
	return m.Called(ctx, view).Error(0)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func newTestOrderService() (*OrderService, *MockOrderRepository, *MockProductRepository, *MockMailer) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	repo := new(MockOrderRepository)
	products := new(MockProductRepository)
	m := new(MockMailer)

	return NewOrderService(log, repo, products, m), repo, products, m
}

func TestBuildOrder(t *testing.T) {
	rose := models.Product{ID: uuid.New(), Name: "Rose", Price: decimal.RequireFromString("10.00")}
	tulip := models.Product{ID: uuid.New(), Name: "Tulip", Price: decimal.RequireFromString("2.50")}
	catalog := map[uuid.UUID]models.Product{rose.ID: rose, tulip.ID: tulip}
	missing := uuid.New()

	tests := []struct {
		name      string
		items     []dto.OrderItemRequest
		wantTotal string
		wantItems int
	}{
		{
			name:      "single line",
			items:     []dto.OrderItemRequest{{ProductID: rose.ID, Quantity: 2}},
			wantTotal: "20.00",
			wantItems: 1,
		},
		{
			name: "several lines",
			items: []dto.OrderItemRequest{
				{ProductID: rose.ID, Quantity: 1},
				{ProductID: tulip.ID, Quantity: 3},
			},
			wantTotal: "17.50",
			wantItems: 2,
		},
		{
			name: "unknown product dropped",
			items: []dto.OrderItemRequest{
				{ProductID: missing, Quantity: 7},
				{ProductID: tulip.ID, Quantity: 2},
			},
			wantTotal: "5.00",
			wantItems: 1,
		},
		{
			name:      "all unknown",
			items:     []dto.OrderItemRequest{{ProductID: missing, Quantity: 1}},
			wantTotal: "0.00",
			wantItems: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := buildOrder(dto.CreateOrderRequest{CustomerName: "Jane", Items: tt.items}, catalog)

			assert.Equal(t, models.OrderStatusNew, order.Status)
			assert.Equal(t, tt.wantTotal, order.TotalAmount.StringFixed(2))
			assert.Len(t, order.Items, tt.wantItems)

			sum := decimal.Zero
			for _, item := range order.Items {
				p := catalog[item.ProductID]
				assert.Equal(t, p.Name, item.ProductName)
				assert.True(t, p.Price.Equal(item.Price))
				sum = sum.Add(item.LineTotal())
			}
			assert.True(t, sum.Equal(order.TotalAmount))
		})
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	product := models.Product{ID: uuid.New(), Name: "Rose", Price: decimal.RequireFromString("10.00"), Stock: 5}
	orderID := uuid.New()
	email := gofakeit.Email()

	req := dto.CreateOrderRequest{
		CustomerName:    "Jane",
		CustomerEmail:   email,
		ShippingAddress: "Main st 1",
		ShippingCity:    "Krakow",
		ShippingCountry: "PL",
		Items:           []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	}

	tests := []struct {
		name      string
		mailErr   error
		mockSetup func(repo *MockOrderRepository, products *MockProductRepository)
		wantErr   bool
	}{
		{
			name: "success",
			mockSetup: func(repo *MockOrderRepository, products *MockProductRepository) {
				products.On("GetProductsByIDs", ctx, []uuid.UUID{product.ID}).Return([]models.Product{product}, nil)
				repo.On("CreateOrder", ctx, mock.MatchedBy(func(o models.Order) bool {
					return o.TotalAmount.StringFixed(2) == "20.00" && len(o.Items) == 1 && o.Items[0].ProductName == "Rose"
				})).Return(orderID, nil)
			},
		},
		{
			name:    "mail failure does not fail the order",
			mailErr: errors.New("smtp down"),
			mockSetup: func(repo *MockOrderRepository, products *MockProductRepository) {
				products.On("GetProductsByIDs", ctx, []uuid.UUID{product.ID}).Return([]models.Product{product}, nil)
				repo.On("CreateOrder", ctx, mock.Anything).Return(orderID, nil)
			},
		},
		{
			name: "repository failure",
			mockSetup: func(repo *MockOrderRepository, products *MockProductRepository) {
				products.On("GetProductsByIDs", ctx, []uuid.UUID{product.ID}).Return([]models.Product{product}, nil)
				repo.On("CreateOrder", ctx, mock.Anything).Return(uuid.Nil, errors.New("tx aborted"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, products, m := newTestOrderService()
			tt.mockSetup(repo, products)
			m.On("Send", mock.Anything, email, "Order confirmation "+orderID.String(), mock.AnythingOfType("string")).
				Return(tt.mailErr)

			order, err := service.CreateOrder(ctx, req)
			service.Wait()

			if tt.wantErr {
				assert.Error(t, err)
				m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, orderID, order.ID)
			assert.Equal(t, "20.00", order.TotalAmount.StringFixed(2))
			assert.Equal(t, orderID, order.Items[0].OrderID)
			m.AssertNumberOfCalls(t, "Send", 1)
			assert.Contains(t, m.Calls[0].Arguments.String(3), "Rose x 2: 20.00")
		})
	}
}

func TestOrderService_SnapshotSurvivesProductRename(t *testing.T) {
	ctx := context.Background()
	product := models.Product{ID: uuid.New(), Name: "Rose", Price: decimal.RequireFromString("10.00")}
	orderID := uuid.New()

	service, repo, products, m := newTestOrderService()
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var saved models.Order
	products.On("GetProductsByIDs", ctx, []uuid.UUID{product.ID}).Return([]models.Product{product}, nil)
	repo.On("CreateOrder", ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(models.Order) }).
		Return(orderID, nil)

	_, err := service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerEmail: "jane@example.com",
		Items:         []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	service.Wait()

	// товар переименован и подорожал после заказа
	product.Name = "Blue Rose"
	product.Price = decimal.RequireFromString("99.00")

	saved.ID = orderID
	repo.On("GetOrderByID", ctx, orderID).Return(saved, nil)

	got, err := service.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "Rose", got.Items[0].ProductName)
	assert.Equal(t, "20.00", got.TotalAmount.StringFixed(2))
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("free text status", func(t *testing.T) {
		service, repo, _, _ := newTestOrderService()
		repo.On("UpdateOrderStatus", ctx, id, "Gift wrapped").Return(nil)
		repo.On("GetOrderByID", ctx, id).Return(models.Order{ID: id, Status: "Gift wrapped"}, nil)

		order, err := service.UpdateStatus(ctx, id, " Gift wrapped ")
		require.NoError(t, err)
		assert.Equal(t, "Gift wrapped", order.Status)
	})

	t.Run("not found", func(t *testing.T) {
		service, repo, _, _ := newTestOrderService()
		repo.On("UpdateOrderStatus", ctx, id, models.OrderStatusShipped).Return(storage.ErrNotFound)

		_, err := service.UpdateStatus(ctx, id, models.OrderStatusShipped)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestOrderService()
	page := models.NewPageRequest(3, 10)

	repo.On("ListOrders", ctx, page).Return([]models.Order(nil), 20, nil)

	got, err := service.ListOrders(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Total)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

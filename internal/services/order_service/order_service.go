package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/mailer"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const confirmationTimeout = 30 * time.Second

type OrderService struct {
	log      *slog.Logger
	repo     repository.OrderRepository
	products repository.ProductRepository
	mailer   mailer.Mailer

	wg sync.WaitGroup
}

func NewOrderService(log *slog.Logger, repo repository.OrderRepository, products repository.ProductRepository, m mailer.Mailer) *OrderService {
	return &OrderService{
		log:      log,
		repo:     repo,
		products: products,
		mailer:   m,
	}
}

// CreateOrder сохраняет заказ со снимком цен и названий. Строки с неизвестными
// товарами отбрасываются без ошибки, остатки на складе не списываются.
func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	const op = "order_service.CreateOrder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("customer", sl.MaskEmail(req.CustomerEmail)),
	)

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to load products", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	catalog := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	order := buildOrder(req, catalog)
	if dropped := len(req.Items) - len(order.Items); dropped > 0 {
		log.Info("unknown products dropped from order", slog.Int("dropped", dropped))
	}

	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		log.Error("failed to save order", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order.ID = id
	for i := range order.Items {
		order.Items[i].OrderID = id
	}

	metrics.OrdersCreated.Inc()
	log.Info("order created",
		slog.String("order_id", id.String()),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)

	s.sendConfirmation(ctx, order)

	return &order, nil
}

// buildOrder - чистая функция: снимок названия и цены каждой известной строки и итог.
func buildOrder(req dto.CreateOrderRequest, catalog map[uuid.UUID]models.Product) models.Order {
	order := models.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPostal:  req.ShippingPostalCode,
		ShippingCountry: req.ShippingCountry,
		Status:          models.OrderStatusNew,
		TotalAmount:     decimal.Zero,
		Items:           make([]models.OrderItem, 0, len(req.Items)),
	}

	for _, line := range req.Items {
		product, ok := catalog[line.ProductID]
		if !ok {
			continue
		}

		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    line.Quantity,
		}
		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.LineTotal())
	}

	return order
}

func (s *OrderService) sendConfirmation(ctx context.Context, order models.Order) {
	const op = "order_service.sendConfirmation"

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log := s.log.With(
			slog.String("op", op),
			slog.String("order_id", order.ID.String()),
		)

		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmationTimeout)
		defer cancel()

		subject, body, err := mailer.OrderConfirmation(order)
		if err == nil {
			err = s.mailer.Send(mailCtx, order.CustomerEmail, subject, body)
		}
		if err != nil {
			metrics.MailFailures.WithLabelValues("order_confirmation").Inc()
			log.Error("failed to send order confirmation", sl.Err(err))

			return
		}

		log.Debug("order confirmation sent")
	}()
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	const op = "order_service.GetOrder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("order_id", orderID.String()),
	)

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, page models.PageRequest) (models.Page[models.Order], error) {
	const op = "order_service.ListOrders"

	orders, total, err := s.repo.ListOrders(ctx, page)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), sl.Err(err))

		return models.Page[models.Order]{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.NewPage(orders, total, page), nil
}

// UpdateStatus принимает произвольную строку: набор статусов - соглашение, а не перечисление.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	const op = "order_service.UpdateStatus"

	log := s.log.With(
		slog.String("op", op),
		slog.String("order_id", orderID.String()),
		slog.String("status", status),
	)

	if err := s.repo.UpdateOrderStatus(ctx, orderID, strings.TrimSpace(status)); err != nil {
		return nil, s.lookupError(log, op, err)
	}

	log.Info("order status changed")

	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	const op = "order_service.DeleteOrder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("order_id", orderID.String()),
	)

	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return s.lookupError(log, op, err)
	}

	log.Info("order deleted")

	return nil
}

// Wait дожидается отправки писем о заказах, вызывается при остановке.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) lookupError(log *slog.Logger, op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug("order not found")
	} else {
		log.Error("order storage failure", sl.Err(err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

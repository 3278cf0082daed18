package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type OrderRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

var orderColumns = []string{
	"id", "customer_name", "customer_email", "customer_phone",
	"shipping_address", "shipping_city", "shipping_postal_code", "shipping_country",
	"status", "total_amount", "created_at",
}

// CreateOrder сохраняет заголовок и позиции заказа одной транзакцией.
func (r *OrderRepo) CreateOrder(ctx context.Context, order models.Order) (uuid.UUID, error) {
	const op = "repository.order_repository.CreateOrder"

	query, args, err := r.sb.Insert("orders").
		Columns(
			"customer_name",
			"customer_email",
			"customer_phone",
			"shipping_address",
			"shipping_city",
			"shipping_postal_code",
			"shipping_country",
			"status",
			"total_amount",
		).
		Values(
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.ShippingAddress,
			order.ShippingCity,
			order.ShippingPostal,
			order.ShippingCountry,
			order.Status,
			order.TotalAmount.String(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return err
		}

		if len(order.Items) == 0 {
			return nil
		}

		insert := r.sb.Insert("order_items").
			Columns("order_id", "position", "product_id", "product_name", "price", "quantity")
		for i, item := range order.Items {
			insert = insert.Values(id, i, item.ProductID, item.ProductName, item.Price.String(), item.Quantity)
		}

		itemsQuery, itemsArgs, err := insert.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, itemsQuery, itemsArgs...)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, orderID uuid.UUID) (models.Order, error) {
	const op = "repository.order_repository.GetOrderByID"

	query, args, err := r.sb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	orders := []models.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return orders[0], nil
}

func (r *OrderRepo) ListOrders(ctx context.Context, page models.PageRequest) ([]models.Order, int, error) {
	const op = "repository.order_repository.ListOrders"

	var total int
	countQuery, _, err := r.sb.Select("COUNT(*)").From("orders").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query, args, err := r.sb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return orders, total, nil
}

func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	const op = "repository.order_repository.UpdateOrderStatus"

	query, args, err := r.sb.Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteOrder удаляет заказ, позиции удаляются каскадом.
func (r *OrderRepo) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	const op = "repository.order_repository.DeleteOrder"

	query, args, err := r.sb.Delete("orders").Where(sq.Eq{"id": orderID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	query, args, err := r.sb.Select("id", "order_id", "product_id", "product_name", "price", "quantity").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]models.OrderItem, len(orders))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity); err != nil {
			return err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}

	return nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.ShippingAddress,
		&o.ShippingCity,
		&o.ShippingPostal,
		&o.ShippingCountry,
		&o.Status,
		&o.TotalAmount,
		&o.CreatedAt,
	)
	return o, err
}

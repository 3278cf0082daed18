package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AnalyticsRepo только читает сырые строки, агрегация выполняется в сервисе.
type AnalyticsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *AnalyticsRepo) OrdersInRange(ctx context.Context, dr models.DateRange) ([]models.OrderFact, error) {
	const op = "repository.analytics_repository.OrdersInRange"

	query, args, err := r.sb.Select("id", "status", "total_amount", "created_at").
		From("orders").
		Where(dateRangePredicates("created_at", dr)).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	facts := []models.OrderFact{}
	for rows.Next() {
		var f models.OrderFact
		if err := rows.Scan(&f.ID, &f.Status, &f.TotalAmount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		facts = append(facts, f)
	}

	return facts, rows.Err()
}

// SoldItems - по строке на позицию заказа (Count = количество) в порядке создания заказов.
func (r *AnalyticsRepo) SoldItems(ctx context.Context, dr models.DateRange) ([]models.ProductCount, error) {
	const op = "repository.analytics_repository.SoldItems"

	query, args, err := r.sb.Select("oi.product_id", "oi.product_name", "oi.quantity").
		From("order_items oi").
		Join("orders o ON o.id = oi.order_id").
		Where(dateRangePredicates("o.created_at", dr)).
		OrderBy("o.created_at", "oi.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryCounts(ctx, op, query, args)
}

// ViewCounts группирует журнал просмотров по товару; имя берётся из текущего каталога.
func (r *AnalyticsRepo) ViewCounts(ctx context.Context, dr models.DateRange) ([]models.ProductCount, error) {
	const op = "repository.analytics_repository.ViewCounts"

	query, args, err := r.sb.Select("v.product_id", "COALESCE(p.name, '')", "COUNT(*)").
		From("product_views v").
		LeftJoin("products p ON p.id = v.product_id").
		Where(dateRangePredicates("v.viewed_at", dr)).
		GroupBy("v.product_id", "p.name").
		OrderBy("MIN(v.viewed_at)", "v.product_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryCounts(ctx, op, query, args)
}

func (r *AnalyticsRepo) queryCounts(ctx context.Context, op, query string, args []interface{}) ([]models.ProductCount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := []models.ProductCount{}
	for rows.Next() {
		var c models.ProductCount
		if err := rows.Scan(&c.ProductID, &c.ProductName, &c.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

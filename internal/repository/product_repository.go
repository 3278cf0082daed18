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

type ProductRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

var productColumns = []string{
	"p.id", "p.name", "p.description", "p.price", "p.image_url",
	"p.category", "p.stock", "p.colors", "p.created_at",
}

func (r *ProductRepo) CreateProduct(ctx context.Context, product models.Product) (uuid.UUID, error) {
	const op = "repository.product_repository.CreateProduct"

	query, args, err := r.sb.Insert("products").
		Columns(
			"name",
			"description",
			"price",
			"image_url",
			"category",
			"stock",
			"colors",
		).
		Values(
			product.Name,
			product.Description,
			product.Price.String(),
			product.ImageRef,
			product.Category,
			product.Stock,
			nonNilStrings(product.Colors),
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
		return replaceTagLinks(ctx, tx, r.sb, "product_tags", "product_id", id, tagIDs(product.Tags))
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ProductRepo) UpdateProduct(ctx context.Context, product models.Product) error {
	const op = "repository.product_repository.UpdateProduct"

	query, args, err := r.sb.Update("products").
		Set("name", product.Name).
		Set("description", product.Description).
		Set("price", product.Price.String()).
		Set("category", product.Category).
		Set("stock", product.Stock).
		Set("colors", nonNilStrings(product.Colors)).
		Where(sq.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return replaceTagLinks(ctx, tx, r.sb, "product_tags", "product_id", product.ID, tagIDs(product.Tags))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ProductRepo) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	const op = "repository.product_repository.DeleteProduct"

	query, args, err := r.sb.Delete("products").Where(sq.Eq{"id": productID}).ToSql()
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

func (r *ProductRepo) GetProductByID(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	const op = "repository.product_repository.GetProductByID"

	query, args, err := r.sb.Select(productColumns...).
		From("products p").
		Where(sq.Eq{"p.id": productID}).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	product, err := scanProduct(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	products := []models.Product{product}
	if err := r.attachTags(ctx, products); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return products[0], nil
}

// GetProductsByIDs - пакетный поиск для заказа; отсутствующие id просто не попадают в результат.
func (r *ProductRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	const op = "repository.product_repository.GetProductsByIDs"

	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := r.sb.Select(productColumns...).
		From("products p").
		Where(sq.Eq{"p.id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (r *ProductRepo) ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int, error) {
	const op = "repository.product_repository.ListProducts"

	preds := productPredicates(filter)

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("products p").Where(preds).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query, args, err := r.sb.Select(productColumns...).
		From("products p").
		Where(preds).
		OrderBy("p.created_at DESC", "p.id").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return products, total, nil
}

func (r *ProductRepo) SetProductImage(ctx context.Context, productID uuid.UUID, ref string) error {
	const op = "repository.product_repository.SetProductImage"

	query, args, err := r.sb.Update("products").
		Set("image_url", ref).
		Where(sq.Eq{"id": productID}).
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

// RecordView добавляет запись в журнал просмотров.
func (r *ProductRepo) RecordView(ctx context.Context, view models.ProductView) error {
	const op = "repository.product_repository.RecordView"

	query, args, err := r.sb.Insert("product_views").
		Columns("product_id", "user_id", "session_id").
		Values(view.ProductID, view.UserID, view.SessionID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	const op = "repository.product_repository.Categories"

	query, args, err := r.sb.Select("DISTINCT category").
		From("products").
		Where(sq.NotEq{"category": ""}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepo) attachTags(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	tags, err := loadTags(ctx, r.db, r.sb, "product_tags", "product_id", ids)
	if err != nil {
		return err
	}

	for i := range products {
		products[i].Tags = tags[products[i].ID]
		if products[i].Tags == nil {
			products[i].Tags = []models.Tag{}
		}
	}

	return nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageRef,
		&p.Category,
		&p.Stock,
		&p.Colors,
		&p.CreatedAt,
	)
	if p.Colors == nil {
		p.Colors = []string{}
	}
	return p, err
}

func tagIDs(tags []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

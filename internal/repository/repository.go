package repository

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Repository собирает все postgres-репозитории поверх одного пула.
type Repository struct {
	db        *pgxpool.Pool
	User      *UserRepo
	Post      *PostRepo
	Product   *ProductRepo
	Order     *OrderRepo
	Tag       *TagRepo
	Content   *ContentRepo
	Analytics *AnalyticsRepo
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepository(db),
		Post:      NewPostRepository(db),
		Product:   NewProductRepository(db),
		Order:     NewOrderRepository(db),
		Tag:       NewTagRepository(db),
		Content:   NewContentRepository(db),
		Analytics: NewAnalyticsRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func newStatementBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// likePattern экранирует спецсимволы LIKE и оборачивает строку в %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

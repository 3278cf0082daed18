package postgresql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	const op = "storage.postgresql.New"

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return pool, nil
}

// OpenDB возвращает *sql.DB поверх пула, goose работает только через database/sql.
func OpenDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDB(*pool.Config().ConnConfig)
}

// Open открывает отдельное соединение через lib/pq для утилит обслуживания.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	const op = "storage.postgresql.Open"

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	const op = "storage.postgresql.Migrate"

	if err := setup(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func Rollback(ctx context.Context, db *sql.DB) error {
	const op = "storage.postgresql.Rollback"

	if err := setup(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func Status(ctx context.Context, db *sql.DB) error {
	const op = "storage.postgresql.Status"

	if err := setup(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func setup() error {
	goose.SetBaseFS(embedMigrations)

	return goose.SetDialect("postgres")
}

package commands

import (
	"context"
	"database/sql"

	"storefront/internal/storage/postgresql"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Миграции схемы встроены в бинарник.

Subcommands:
  up      - apply pending migrations
  down    - roll back the last migration
  status  - show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			if err := postgresql.Migrate(ctx, db); err != nil {
				return err
			}
			successPrint("✓ migrations applied\n")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			if err := postgresql.Rollback(ctx, db); err != nil {
				return err
			}
			successPrint("✓ last migration rolled back\n")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			return postgresql.Status(ctx, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dsn, err := resolveDSN()
	if err != nil {
		return err
	}

	db, err := postgresql.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"storefront/internal/domain/models"
	"storefront/internal/mailer"
	"storefront/internal/repository"
	"storefront/internal/services/auth"
	"storefront/internal/storage/postgresql"
	"storefront/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with the Admin role",
	Long: `Создаёт пользователя с ролью Admin.

Examples:
  storefrontctl create-admin --username admin --email admin@example.com --password 's3cret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runCreateAdmin(ctx)
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin e-mail")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (8-72 characters)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(ctx context.Context) error {
	input := dto.RegisterRequest{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	}
	if err := validator.New().Struct(input); err != nil {
		return fmt.Errorf("invalid admin data: %w", err)
	}

	dsn, err := resolveDSN()
	if err != nil {
		return err
	}

	pool, err := postgresql.New(ctx, dsn, 2)
	if err != nil {
		return err
	}
	defer pool.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// токены и сброс пароля здесь не нужны
	a := auth.New(log, repository.NewUserRepository(pool), nil, nil, mailer.NewNoopMailer(log), auth.Config{})

	user, err := a.CreateUser(ctx, input.Username, input.Email, input.Password, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, auth.ErrUserExist) {
			return fmt.Errorf("user %q or e-mail %q already exists", input.Username, input.Email)
		}
		return err
	}

	successPrint("✓ admin created\n")
	infoPrint("  id:       %s\n", user.ID)
	infoPrint("  username: %s\n", user.Username)

	return nil
}

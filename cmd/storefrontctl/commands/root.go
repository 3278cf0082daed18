package commands

import (
	"fmt"
	"os"

	"storefront/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version подставляется при сборке: -ldflags "-X storefront/cmd/storefrontctl/commands.version=..."
var version = "dev"

var (
	// Global flags
	configPath string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:           "storefrontctl",
	Short:         "Storefront operator tool",
	Long:          `Обслуживание storefront: миграции базы и создание администратора.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	successPrint = color.New(color.FgGreen, color.Bold).PrintfFunc()
	errorPrint   = color.New(color.FgRed, color.Bold).FprintfFunc()
	infoPrint    = color.New(color.FgCyan).PrintfFunc()
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorPrint(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "postgres DSN, overrides postgres.dsn from config")
}

// resolveDSN: --db важнее файла конфигурации.
func resolveDSN() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}
	if configPath == "" {
		return "", fmt.Errorf("either --db or --config (CONFIG_PATH) is required")
	}

	cfg, err := config.LoadPath(configPath)
	if err != nil {
		return "", err
	}

	return cfg.Postgres.DSN, nil
}

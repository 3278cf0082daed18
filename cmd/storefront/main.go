package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/lib/logger"
)

// @title Storefront API
// @version 1.0
// @description Блог и магазин: посты, товары, заказы, теги, контент сайта и аналитика.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)

	log.Info("starting storefront", slog.String("env", cfg.Env))

	application := app.MustNew(context.Background(), log, cfg)

	go func() {
		application.HTTPServer.MustRun()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop
	log.Info("stopping application", slog.String("signal", sign.String()))

	application.Stop()

	log.Info("application stopped")
}

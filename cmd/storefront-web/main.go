package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/lib/logger"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/web"
)

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)

	server, err := web.New(log, web.Options{
		Host:       cfg.HTTP.Host,
		Port:       cfg.Web.Port,
		APIBaseURL: cfg.Web.APIBaseURL,
		StaticDir:  cfg.Web.StaticDir,
	})
	if err != nil {
		log.Error("failed to init web server", sl.Err(err))
		os.Exit(1)
	}

	go func() {
		server.MustRun()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop
	log.Info("stopping web server", slog.String("signal", sign.String()))

	if err := server.Stop(); err != nil {
		log.Error("web server stop", sl.Err(err))
	}

	log.Info("web server stopped")
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "storefront/internal/app/http"
	"storefront/internal/config"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/mailer"
	"storefront/internal/repository"
	analytics "storefront/internal/services/analytics_service"
	"storefront/internal/services/auth"
	blog "storefront/internal/services/blog_service"
	content "storefront/internal/services/content_service"
	media "storefront/internal/services/media_service"
	orders "storefront/internal/services/order_service"
	products "storefront/internal/services/product_service"
	tags "storefront/internal/services/tag_service"
	tokens "storefront/internal/services/token_service"
	"storefront/internal/storage/filestorage"
	"storefront/internal/storage/postgresql"
	redisapp "storefront/internal/storage/redis"
	httprouters "storefront/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server

	pool   *pgxpool.Pool
	redis  *redisapp.Client
	auth   *auth.Auth
	orders *orders.OrderService
}

func MustNew(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	a, err := New(ctx, log, cfg)
	if err != nil {
		panic(err)
	}
	return a
}

// New собирает приложение: хранилища -> репозитории -> сервисы -> HTTP.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	pool, err := postgresql.New(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Postgres.AutoMigrate {
		db := postgresql.OpenDB(pool)
		err := postgresql.Migrate(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("migrations applied")
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		log.Warn("redis is not reachable, token operations will fail", sl.Err(err))
	}

	fileStorage, uploadsDir, err := newFileStorage(log, cfg.ImageStorage)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := newMailer(log, cfg.Mail)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(pool)
	tokenRepo := repository.NewRedisTokenRepo(redisClient)
	resetRepo := repository.NewRedisResetRepo(redisClient)

	tokenService := tokens.NewTokenService(log, tokenRepo, repo.User, tokens.Config{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})

	authService := auth.New(log, repo.User, resetRepo, tokenService, m, auth.Config{
		ResetTTL: cfg.Auth.ResetTokenTTL,
		ResetURL: cfg.Auth.ResetURL,
	})

	mediaService := media.NewMediaService(log, fileStorage, cfg.ImageStorage.SignedURLTTL)
	orderService := orders.NewOrderService(log, repo.Order, repo.Product, m)

	routers := httprouters.NewRouter(log, httprouters.Services{
		Auth:      authService,
		Blog:      blog.NewBlogService(log, repo.Post, repo.Tag, mediaService),
		Product:   products.NewProductService(log, repo.Product, repo.Tag, mediaService),
		Order:     orderService,
		Tag:       tags.NewTagService(log, repo.Tag),
		Content:   content.NewContentService(log, repo.Content, repo.Content, mediaService, cfg.Cache.SettingsTTL),
		Analytics: analytics.NewAnalyticsService(log, repo.Analytics),
	})

	server := httpapp.New(log, httpapp.Options{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		ProductsWriteRole: cfg.Auth.ProductsWriteRole,
		OrdersReadRole:    cfg.Auth.OrdersReadRole,
		UploadsDir:        uploadsDir,
	}, routers, tokenService)
	server.BuildRouters()

	return &App{
		log:        log,
		HTTPServer: server,
		pool:       pool,
		redis:      redisClient,
		auth:       authService,
		orders:     orderService,
	}, nil
}

// Stop останавливает HTTP, дожидается фоновых писем и закрывает соединения.
func (a *App) Stop() {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("http server stop", sl.Err(err))
	}

	a.orders.Wait()
	a.auth.Wait()

	a.pool.Close()

	if err := a.redis.Close(); err != nil {
		log.Error("redis close", sl.Err(err))
	}
}

// newFileStorage выбирает драйвер изображений; второй результат - каталог для раздачи /uploads.
func newFileStorage(log *slog.Logger, cfg config.ImageStorageConfig) (filestorage.FileStorage, string, error) {
	switch cfg.Driver {
	case "s3":
		s3Storage, err := filestorage.NewS3Storage(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket)
		if err != nil {
			return nil, "", err
		}
		if s3Storage == nil {
			log.Warn("s3 credentials are not configured, images will not be stored")
			return filestorage.NewNoopStorage(), "", nil
		}
		log.Info("image storage: s3", slog.String("bucket", cfg.S3.Bucket))
		return s3Storage, "", nil
	case "local":
		local, err := filestorage.NewLocalFileStorage(cfg.Local.BaseDir, cfg.Local.BaseURL)
		if err != nil {
			return nil, "", err
		}
		log.Info("image storage: local", slog.String("dir", local.BaseDir()))
		return local, local.BaseDir(), nil
	case "", "none":
		log.Warn("image storage disabled")
		return filestorage.NewNoopStorage(), "", nil
	default:
		return nil, "", fmt.Errorf("unknown image storage driver %q", cfg.Driver)
	}
}

func newMailer(log *slog.Logger, cfg config.MailConfig) (mailer.Mailer, error) {
	if cfg.Disabled || cfg.Host == "" {
		log.Warn("mail disabled, messages will only be logged")
		return mailer.NewNoopMailer(log), nil
	}

	return mailer.NewSMTPMailer(log, cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From)
}

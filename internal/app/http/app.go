package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"storefront/internal/domain/models"
	authmw "storefront/internal/middleware"
	httprouters "storefront/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const bodyLimit = "32M"

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator возвращает валидатор, который называет поля по json-тегам.
func NewValidator() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &CustomValidator{validator: validate}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	// Роли для изменения каталога и чтения заказов, "*" - любой аутентифицированный.
	// Admin проходит всегда; изменение заказов доступно только Admin.
	ProductsWriteRole string
	OrdersReadRole    string

	// UploadsDir раздаётся по /uploads, если изображения хранятся на диске.
	UploadsDir string
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers, parser authmw.TokenParser) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()
	e.HTTPErrorHandler = routers.HTTPErrorHandler

	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	if len(opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Session-Id"},
		}))
	} else {
		e.Use(middleware.CORS())
	}

	e.Use(middleware.BodyLimit(bodyLimit))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			)

			return nil
		},
	}))

	e.Use(authmw.PrometheusMetrics)
	e.Use(authmw.Authenticate(log, parser))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Echo нужен тестам, чтобы гонять запросы через ServeHTTP.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.opts.Host, s.opts.Port)
}

func (s *Server) BuildRouters() {
	r := s.routers

	admin := authmw.RequireRole(s.log, models.RoleAdmin)
	productsWrite := authmw.RequireRole(s.log, roleOrAdmin(s.opts.ProductsWriteRole)...)
	ordersRead := authmw.RequireRole(s.log, roleOrAdmin(s.opts.OrdersReadRole)...)

	s.e.GET("/health", r.Health)
	s.e.GET("/metrics", echoprometheus.NewHandler())
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	s.e.POST("/login", r.Login)
	s.e.POST("/register", r.Register)

	authGroup := s.e.Group("/auth")
	{
		authGroup.POST("/refresh", r.Refresh)
		authGroup.POST("/revoke", r.Revoke)
		authGroup.POST("/request-password-reset", r.RequestPasswordReset)
		authGroup.POST("/reset-password", r.ResetPassword)
	}

	posts := s.e.Group("/posts")
	{
		posts.GET("", r.ListPosts)
		posts.GET("/pinned", r.ListPinnedPosts)
		posts.GET("/:id", r.GetPost)
		posts.GET("/:id/comments", r.ListComments)
		posts.POST("/:id/comments", r.AddComment)

		posts.POST("", r.CreatePost, admin)
		posts.PUT("/:id", r.UpdatePost, admin)
		posts.DELETE("/:id", r.DeletePost, admin)
		posts.PUT("/:id/pin", r.PinPost, admin)
		posts.PUT("/:id/unpin", r.UnpinPost, admin)
	}

	products := s.e.Group("/products")
	{
		products.GET("", r.ListProducts)
		products.GET("/categories", r.ListCategories)
		products.GET("/:id", r.GetProduct)

		products.POST("", r.CreateProduct, productsWrite)
		products.PUT("/:id", r.UpdateProduct, productsWrite)
		products.DELETE("/:id", r.DeleteProduct, productsWrite)
		products.POST("/:id/image", r.UploadProductImage, productsWrite)
		products.DELETE("/:id/image", r.DeleteProductImage, productsWrite)
	}

	orders := s.e.Group("/orders")
	{
		orders.POST("", r.CreateOrder)

		orders.GET("", r.ListOrders, ordersRead)
		orders.GET("/:id", r.GetOrder, ordersRead)
		orders.PUT("/:id/status", r.UpdateOrderStatus, admin)
		orders.DELETE("/:id", r.DeleteOrder, admin)
	}

	tags := s.e.Group("/tags")
	{
		tags.GET("", r.ListTags)
		tags.GET("/:id", r.GetTag)

		tags.POST("", r.CreateTag, admin)
		tags.PUT("/:id", r.UpdateTag, admin)
		tags.DELETE("/:id", r.DeleteTag, admin)
	}

	about := s.e.Group("/about")
	{
		about.GET("", r.GetAbout)
		about.PUT("", r.UpdateAbout, admin)
		about.POST("/image", r.UploadAboutImage, admin)
		about.DELETE("/image", r.DeleteAboutImage, admin)
	}

	settings := s.e.Group("/site-settings")
	{
		settings.GET("", r.GetSiteSettings)
		settings.GET("/themes", r.ListThemes)
		settings.PUT("", r.UpdateSiteSettings, admin)
		settings.POST("/logo", r.UploadLogo, admin)
		settings.DELETE("/logo", r.DeleteLogo, admin)
	}

	analytics := s.e.Group("/analytics", admin)
	{
		analytics.GET("/orders/summary", r.OrdersSummary)
		analytics.GET("/orders/sales-by-day", r.SalesByDay)
		analytics.GET("/orders/status-counts", r.StatusCounts)
		analytics.GET("/products/top-sold", r.TopSoldProducts)
		analytics.GET("/products/top-viewed", r.TopViewedProducts)
	}
}

// roleOrAdmin - настроенная роль плюс Admin; пустая строка означает только Admin.
func roleOrAdmin(role string) []string {
	role = strings.TrimSpace(role)
	if role == "" || role == models.RoleAdmin {
		return []string{models.RoleAdmin}
	}
	return []string{role, models.RoleAdmin}
}

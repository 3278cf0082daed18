package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"storefront/internal/lib/logger/sl"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const apiPrefix = "/api"

type Options struct {
	Host       string
	Port       string
	APIBaseURL string
	StaticDir  string
}

// Server - внешний уровень: раздаёт SPA и проксирует /api/* в API без префикса.
type Server struct {
	log  *slog.Logger
	e    *echo.Echo
	opts Options
}

func New(log *slog.Logger, opts Options) (*Server, error) {
	const op = "web.New"

	target, err := url.Parse(opts.APIBaseURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%s: invalid api base url %q", op, opts.APIBaseURL)
	}

	if _, err := os.Stat(opts.StaticDir); err != nil {
		log.Warn("static dir is not available, only /api will work",
			slog.String("dir", opts.StaticDir),
			sl.Err(err),
		)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{log: log, e: e, opts: opts}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogMethod:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
		Skipper: func(c echo.Context) bool {
			return !isAPIPath(c.Request().URL.Path)
		},
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
			{Name: "api", URL: target},
		}),
		Rewrite: map[string]string{
			"^/api":   "/",
			"^/api/*": "/$1",
		},
	}))

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  opts.StaticDir,
		HTML5: true,
	}))

	return s, nil
}

func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "web.Server.MustRun"

	s.log.Info(op,
		slog.String("addr", s.addr()),
		slog.String("api", s.opts.APIBaseURL),
		slog.String("static", s.opts.StaticDir),
	)

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "web.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "web.Server.Stop"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.opts.Host, s.opts.Port)
}

// errorHandler: недоступный API превращается в 502 в общем формате ошибок.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	var body response.ErrorResponse
	switch {
	case code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout:
		s.log.Error("upstream failure",
			slog.String("path", c.Request().URL.Path),
			sl.Err(err),
		)
		code = http.StatusBadGateway
		body = response.ErrBadGateway
	case code == http.StatusNotFound:
		body = response.ErrNotFound
	case code >= http.StatusInternalServerError:
		s.log.Error("web server error", slog.String("path", c.Request().URL.Path), sl.Err(err))
		body = response.ErrInternal
	default:
		body = response.ErrorResponseWithDetails(http.StatusText(code), "")
	}

	_ = c.JSON(code, body)
}

func isAPIPath(path string) bool {
	return path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/")
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// AnyRole пропускает любого аутентифицированного пользователя.
const AnyRole = "*"

const principalKey = "principal"

type TokenParser interface {
	ParseAccessToken(token string) (models.Principal, error)
}

// Authenticate разбирает заголовок Authorization: Bearer и кладёт Principal в контекст.
// Запрос без токена или с невалидным токеном проходит дальше как анонимный.
func Authenticate(log *slog.Logger, parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			principal, err := parser.ParseAccessToken(token)
			if err != nil {
				log.Debug("invalid access token",
					slog.String("path", c.Path()),
					sl.Err(err),
				)
				return next(c)
			}

			c.Set(principalKey, principal)

			return next(c)
		}
	}
}

// RequireRole: 401 без аутентификации, 403 если роль не входит в roles.
// AnyRole среди roles пропускает любого аутентифицированного пользователя.
func RequireRole(log *slog.Logger, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
			}

			if !allowed(principal, roles) {
				log.Warn("access denied",
					slog.String("user", sl.MaskName(principal.Username)),
					slog.String("role", principal.Role),
					slog.String("required_roles", strings.Join(roles, ",")),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Path()),
				)
				return c.JSON(http.StatusForbidden, response.ErrForbidden)
			}

			return next(c)
		}
	}
}

func allowed(p models.Principal, roles []string) bool {
	for _, role := range roles {
		if role == AnyRole || p.HasRole(role) {
			return true
		}
	}
	return false
}

func PrincipalFrom(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

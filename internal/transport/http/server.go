package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/services/auth"
	products "storefront/internal/services/product_service"
	tokens "storefront/internal/services/token_service"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "storefront/docs"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.LoginResponse, error)
	Revoke(ctx context.Context, refreshToken string) error
	Register(ctx context.Context, input dto.RegisterRequest) (models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error
}

type BlogService interface {
	CreatePost(ctx context.Context, req dto.PostRequest, author string, images []models.Upload) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, req dto.PostRequest, images []models.Upload) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	GetPost(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[dto.PostResponse], error)
	ListPinned(ctx context.Context) ([]dto.PostResponse, error)
	SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) (*dto.PostResponse, error)
	AddComment(ctx context.Context, postID uuid.UUID, req dto.CommentRequest) (models.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID, viewer products.Viewer) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.Page[dto.ProductResponse], error)
	Categories(ctx context.Context) ([]string, error)
	SetProductImage(ctx context.Context, productID uuid.UUID, upload models.Upload) (*dto.ProductResponse, error)
	DeleteProductImage(ctx context.Context, productID uuid.UUID) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, page models.PageRequest) (models.Page[models.Order], error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type TagService interface {
	CreateTag(ctx context.Context, req dto.TagRequest) (models.Tag, error)
	UpdateTag(ctx context.Context, tagID uuid.UUID, req dto.TagRequest) (models.Tag, error)
	DeleteTag(ctx context.Context, tagID uuid.UUID) error
	GetTag(ctx context.Context, tagID uuid.UUID) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type ContentService interface {
	GetAbout(ctx context.Context) (dto.AboutResponse, error)
	UpdateAbout(ctx context.Context, req dto.AboutRequest, updatedBy string) (dto.AboutResponse, error)
	SetAboutImage(ctx context.Context, upload models.Upload, updatedBy string) (dto.AboutResponse, error)
	DeleteAboutImage(ctx context.Context, updatedBy string) (dto.AboutResponse, error)
	GetSiteSettings(ctx context.Context) (dto.SiteSettingsResponse, error)
	UpdateSiteSettings(ctx context.Context, req dto.SiteSettingsRequest, updatedBy string) (dto.SiteSettingsResponse, error)
	SetLogo(ctx context.Context, upload models.Upload, updatedBy string) (dto.SiteSettingsResponse, error)
	DeleteLogo(ctx context.Context, updatedBy string) (dto.SiteSettingsResponse, error)
	Themes() []models.Theme
}

type AnalyticsService interface {
	Summary(ctx context.Context, r models.DateRange) (models.OrderSummary, error)
	SalesByDay(ctx context.Context, r models.DateRange, limit int) ([]models.DailySales, error)
	StatusCounts(ctx context.Context, r models.DateRange) ([]models.StatusCount, error)
	TopSold(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error)
	TopViewed(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error)
}

type Routers struct {
	log              *slog.Logger
	AuthService      AuthService
	BlogService      BlogService
	ProductService   ProductService
	OrderService     OrderService
	TagService       TagService
	ContentService   ContentService
	AnalyticsService AnalyticsService
}

type Services struct {
	Auth      AuthService
	Blog      BlogService
	Product   ProductService
	Order     OrderService
	Tag       TagService
	Content   ContentService
	Analytics AnalyticsService
}

func NewRouter(log *slog.Logger, s Services) *Routers {
	return &Routers{
		log:              log,
		AuthService:      s.Auth,
		BlogService:      s.Blog,
		ProductService:   s.Product,
		OrderService:     s.Order,
		TagService:       s.Tag,
		ContentService:   s.Content,
		AnalyticsService: s.Analytics,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

// Health godoc
// @Summary Проверка доступности
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.MessageResponse("ok"))
}

// respondError - единственное место, где ошибки сервисов превращаются в HTTP-статусы.
// Валидация и not found ожидаемы и не логируются как ошибки.
func (r *Routers) respondError(c echo.Context, log *slog.Logger, err error) error {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Debug("validation failed", slog.Any("fields", verr.Fields))
		return c.JSON(http.StatusBadRequest, response.ValidationErrorResponse(verr.Fields))
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, storage.ErrTagExists):
		return c.JSON(http.StatusConflict, response.ErrTagAlreadyExists)
	case errors.Is(err, auth.ErrUserExist):
		return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	case errors.Is(err, tokens.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidRefreshToken)
	}

	log.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		sl.Err(err),
	)

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// HTTPErrorHandler отдаёт ошибки echo (404 маршрута, 405, паники после Recover) в общем формате.
func (r *Routers) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		r.log.Error("unhandled error", slog.String("path", c.Request().URL.Path), sl.Err(err))
		_ = c.JSON(http.StatusInternalServerError, response.ErrInternal)
		return
	}

	var body response.ErrorResponse
	switch he.Code {
	case http.StatusNotFound:
		body = response.ErrNotFound
	case http.StatusUnauthorized:
		body = response.ErrUnauthorized
	case http.StatusForbidden:
		body = response.ErrForbidden
	case http.StatusRequestEntityTooLarge:
		body = response.ErrorResponseWithDetails("payload_too_large", "Request body is too large")
	case http.StatusBadRequest:
		body = response.ErrInvalidRequestFormat
	case http.StatusMethodNotAllowed:
		body = response.ErrorResponseWithDetails("method_not_allowed", "Method not allowed")
	default:
		if he.Code >= http.StatusInternalServerError {
			r.log.Error("server error", slog.String("path", c.Request().URL.Path), sl.Err(err))
			body = response.ErrInternal
		} else {
			body = response.ErrorResponseWithDetails(http.StatusText(he.Code), "")
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}

	_ = c.JSON(he.Code, body)
}

// bindAndValidate: 400 без подробностей для нечитаемого тела, 400 с полями для нарушений правил.
func (r *Routers) bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidFormat
	}

	if err := c.Validate(req); err != nil {
		return validationError(err)
	}

	return nil
}

var errInvalidFormat = errors.New("invalid request format")

// writeBindError отвечает на ошибку bindAndValidate.
func (r *Routers) writeBindError(c echo.Context, log *slog.Logger, err error) error {
	if errors.Is(err, errInvalidFormat) {
		log.Debug("invalid request format")
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	return r.respondError(c, log, err)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return id, nil
}

// invalidID: кривой идентификатор в пути неотличим от отсутствующей записи.
func (r *Routers) invalidID(c echo.Context) error {
	return c.JSON(http.StatusNotFound, response.ErrNotFound)
}

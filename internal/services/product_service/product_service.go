package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/repository"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
)

type ImageService interface {
	Replace(ctx context.Context, slot models.ImageSlot, previousRef string, upload models.Upload) (string, error)
	Remove(ctx context.Context, ref string) error
	SignedURL(ctx context.Context, ref string) string
}

type TagLookup interface {
	MissingTagIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// Viewer - кто открыл карточку товара: пользователь или анонимная сессия.
type Viewer struct {
	UserID    *uuid.UUID
	SessionID string
}

type ProductService struct {
	log    *slog.Logger
	repo   repository.ProductRepository
	tags   TagLookup
	images ImageService
}

func NewProductService(log *slog.Logger, repo repository.ProductRepository, tags TagLookup, images ImageService) *ProductService {
	return &ProductService{log: log, repo: repo, tags: tags, images: images}
}

func (s *ProductService) CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	const op = "product_service.CreateProduct"

	log := s.log.With(slog.String("op", op))

	if err := s.validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateProduct(ctx, productFromRequest(req))
	if err != nil {
		log.Error("failed to save product", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("product created", slog.String("product_id", id.String()))

	return s.load(ctx, log, op, id)
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	const op = "product_service.UpdateProduct"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	if err := s.validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product := productFromRequest(req)
	product.ID = productID

	// UpdateProduct не трогает image_url, изображение меняется отдельным запросом
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, s.lookupError(log, op, err)
	}

	log.Info("product updated")

	return s.load(ctx, log, op, productID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	const op = "product_service.DeleteProduct"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return s.lookupError(log, op, err)
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return s.lookupError(log, op, err)
	}

	_ = s.images.Remove(ctx, product.ImageRef)

	log.Info("product deleted")

	return nil
}

// GetProduct возвращает товар и пишет событие просмотра. Ошибка записи просмотра
// не влияет на ответ.
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID, viewer Viewer) (*dto.ProductResponse, error) {
	const op = "product_service.GetProduct"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	resp, err := s.load(ctx, log, op, productID)
	if err != nil {
		return nil, err
	}

	view := models.ProductView{
		ProductID: productID,
		UserID:    viewer.UserID,
		SessionID: viewer.SessionID,
	}
	if err := s.repo.RecordView(ctx, view); err != nil {
		log.Warn("failed to record product view", sl.Err(err))
	}

	return resp, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.Page[dto.ProductResponse], error) {
	const op = "product_service.ListProducts"

	products, total, err := s.repo.ListProducts(ctx, filter, page)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), sl.Err(err))

		return models.Page[dto.ProductResponse]{}, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, s.toResponse(ctx, p))
	}

	return models.NewPage(items, total, page), nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	const op = "product_service.Categories"

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if categories == nil {
		categories = []string{}
	}

	return categories, nil
}

func (s *ProductService) SetProductImage(ctx context.Context, productID uuid.UUID, upload models.Upload) (*dto.ProductResponse, error) {
	const op = "product_service.SetProductImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	ref, err := s.images.Replace(ctx, models.SlotProduct, product.ImageRef, upload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetProductImage(ctx, productID, ref); err != nil {
		_ = s.images.Remove(ctx, ref)

		return nil, s.lookupError(log, op, err)
	}

	product.ImageRef = ref
	resp := s.toResponse(ctx, product)

	return &resp, nil
}

func (s *ProductService) DeleteProductImage(ctx context.Context, productID uuid.UUID) error {
	const op = "product_service.DeleteProductImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("product_id", productID.String()),
	)

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return s.lookupError(log, op, err)
	}

	if err := s.images.Remove(ctx, product.ImageRef); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetProductImage(ctx, productID, ""); err != nil {
		return s.lookupError(log, op, err)
	}

	return nil
}

func (s *ProductService) load(ctx context.Context, log *slog.Logger, op string, productID uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	resp := s.toResponse(ctx, product)

	return &resp, nil
}

func (s *ProductService) validate(ctx context.Context, req dto.ProductRequest) error {
	vErr := &models.ValidationError{}

	if req.Price.IsNegative() {
		vErr.Add("price", "must not be negative")
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		vErr.Add("price", "must have at most 2 decimal places")
	}

	if len(req.TagIDs) > 0 {
		missing, err := s.tags.MissingTagIDs(ctx, req.TagIDs)
		if err != nil {
			return err
		}
		for _, id := range missing {
			vErr.Add("tagIds", "unknown tag "+id.String())
		}
	}

	if len(vErr.Fields) > 0 {
		return vErr
	}

	return nil
}

func (s *ProductService) lookupError(log *slog.Logger, op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug("product not found")
	} else {
		log.Error("product storage failure", sl.Err(err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *ProductService) toResponse(ctx context.Context, p models.Product) dto.ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}

	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    s.images.SignedURL(ctx, p.ImageRef),
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		Tags:        tags,
		Colors:      colors,
	}
}

func productFromRequest(req dto.ProductRequest) models.Product {
	tags := make([]models.Tag, 0, len(req.TagIDs))
	for _, id := range req.TagIDs {
		tags = append(tags, models.Tag{ID: id})
	}

	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Colors:      req.Colors,
		Tags:        tags,
	}
}

package httpapp_test

import (
	"context"

	"storefront/internal/domain/models"
	products "storefront/internal/services/product_service"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseAccessToken(token string) (models.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(models.Principal), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (dto.LoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) Register(ctx context.Context, input dto.RegisterRequest) (models.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	return m.Called(ctx, input).Error(0)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) CreatePost(ctx context.Context, req dto.PostRequest, author string, images []models.Upload) (*dto.PostResponse, error) {
	args := m.Called(ctx, req, author, images)
	res, _ := args.Get(0).(*dto.PostResponse)
	return res, args.Error(1)
}

func (m *MockBlogService) UpdatePost(ctx context.Context, postID uuid.UUID, req dto.PostRequest, images []models.Upload) (*dto.PostResponse, error) {
	args := m.Called(ctx, postID, req, images)
	res, _ := args.Get(0).(*dto.PostResponse)
	return res, args.Error(1)
}

func (m *MockBlogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockBlogService) GetPost(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error) {
	args := m.Called(ctx, postID)
	res, _ := args.Get(0).(*dto.PostResponse)
	return res, args.Error(1)
}

func (m *MockBlogService) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[dto.PostResponse], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(models.Page[dto.PostResponse]), args.Error(1)
}

func (m *MockBlogService) ListPinned(ctx context.Context) ([]dto.PostResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.PostResponse), args.Error(1)
}

func (m *MockBlogService) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) (*dto.PostResponse, error) {
	args := m.Called(ctx, postID, pinned)
	res, _ := args.Get(0).(*dto.PostResponse)
	return res, args.Error(1)
}

func (m *MockBlogService) AddComment(ctx context.Context, postID uuid.UUID, req dto.CommentRequest) (models.Comment, error) {
	args := m.Called(ctx, postID, req)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockBlogService) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.ProductResponse)
	return res, args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	args := m.Called(ctx, productID, req)
	res, _ := args.Get(0).(*dto.ProductResponse)
	return res, args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockProductService) GetProduct(ctx context.Context, productID uuid.UUID, viewer products.Viewer) (*dto.ProductResponse, error) {
	args := m.Called(ctx, productID, viewer)
	res, _ := args.Get(0).(*dto.ProductResponse)
	return res, args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.Page[dto.ProductResponse], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(models.Page[dto.ProductResponse]), args.Error(1)
}

func (m *MockProductService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductService) SetProductImage(ctx context.Context, productID uuid.UUID, upload models.Upload) (*dto.ProductResponse, error) {
	args := m.Called(ctx, productID, upload)
	res, _ := args.Get(0).(*dto.ProductResponse)
	return res, args.Error(1)
}

func (m *MockProductService) DeleteProductImage(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*models.Order)
	return res, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	res, _ := args.Get(0).(*models.Order)
	return res, args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, page models.PageRequest) (models.Page[models.Order], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(models.Page[models.Order]), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	res, _ := args.Get(0).(*models.Order)
	return res, args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) CreateTag(ctx context.Context, req dto.TagRequest) (models.Tag, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) UpdateTag(ctx context.Context, tagID uuid.UUID, req dto.TagRequest) (models.Tag, error) {
	args := m.Called(ctx, tagID, req)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	return m.Called(ctx, tagID).Error(0)
}

func (m *MockTagService) GetTag(ctx context.Context, tagID uuid.UUID) (models.Tag, error) {
	args := m.Called(ctx, tagID)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) GetAbout(ctx context.Context) (dto.AboutResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.AboutResponse), args.Error(1)
}

func (m *MockContentService) UpdateAbout(ctx context.Context, req dto.AboutRequest, updatedBy string) (dto.AboutResponse, error) {
	args := m.Called(ctx, req, updatedBy)
	return args.Get(0).(dto.AboutResponse), args.Error(1)
}

func (m *MockContentService) SetAboutImage(ctx context.Context, upload models.Upload, updatedBy string) (dto.AboutResponse, error) {
	args := m.Called(ctx, upload, updatedBy)
	return args.Get(0).(dto.AboutResponse), args.Error(1)
}

func (m *MockContentService) DeleteAboutImage(ctx context.Context, updatedBy string) (dto.AboutResponse, error) {
	args := m.Called(ctx, updatedBy)
	return args.Get(0).(dto.AboutResponse), args.Error(1)
}

func (m *MockContentService) GetSiteSettings(ctx context.Context) (dto.SiteSettingsResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.SiteSettingsResponse), args.Error(1)
}

func (m *MockContentService) UpdateSiteSettings(ctx context.Context, req dto.SiteSettingsRequest, updatedBy string) (dto.SiteSettingsResponse, error) {
	args := m.Called(ctx, req, updatedBy)
	return args.Get(0).(dto.SiteSettingsResponse), args.Error(1)
}

func (m *MockContentService) SetLogo(ctx context.Context, upload models.Upload, updatedBy string) (dto.SiteSettingsResponse, error) {
	args := m.Called(ctx, upload, updatedBy)
	return args.Get(0).(dto.SiteSettingsResponse), args.Error(1)
}

func (m *MockContentService) DeleteLogo(ctx context.Context, updatedBy string) (dto.SiteSettingsResponse, error) {
	args := m.Called(ctx, updatedBy)
	return args.Get(0).(dto.SiteSettingsResponse), args.Error(1)
}

func (m *MockContentService) Themes() []models.Theme {
	return m.Called().Get(0).([]models.Theme)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context, r models.DateRange) (models.OrderSummary, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(models.OrderSummary), args.Error(1)
}

func (m *MockAnalyticsService) SalesByDay(ctx context.Context, r models.DateRange, limit int) ([]models.DailySales, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]models.DailySales), args.Error(1)
}

func (m *MockAnalyticsService) StatusCounts(ctx context.Context, r models.DateRange) ([]models.StatusCount, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockAnalyticsService) TopSold(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]models.ProductRank), args.Error(1)
}

func (m *MockAnalyticsService) TopViewed(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]models.ProductRank), args.Error(1)
}

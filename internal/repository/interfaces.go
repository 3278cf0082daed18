package repository

import (
	"context"
	"time"

	"storefront/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, exp time.Duration) error
	// ConsumeRefreshToken атомарно читает и удаляет токен; повторный вызов вернёт storage.ErrTokenNotFound.
	ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

type ResetTokenRepository interface {
	SaveResetToken(ctx context.Context, userID uuid.UUID, token string, exp time.Duration) error
	ConsumeResetToken(ctx context.Context, userID uuid.UUID, token string) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post models.Post) (uuid.UUID, error)
	UpdatePost(ctx context.Context, post models.Post) error
	DeletePost(ctx context.Context, postID uuid.UUID) error
	GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int, error)
	ListPinnedPosts(ctx context.Context) ([]models.Post, error)
	SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error
	AddComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProductByID(ctx context.Context, productID uuid.UUID) (models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int, error)
	SetProductImage(ctx context.Context, productID uuid.UUID, ref string) error
	RecordView(ctx context.Context, view models.ProductView) error
	Categories(ctx context.Context) ([]string, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (uuid.UUID, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (models.Order, error)
	ListOrders(ctx context.Context, page models.PageRequest) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type TagRepository interface {
	CreateTag(ctx context.Context, tag models.Tag) (uuid.UUID, error)
	UpdateTag(ctx context.Context, tag models.Tag) error
	DeleteTag(ctx context.Context, tagID uuid.UUID) error
	GetTagByID(ctx context.Context, tagID uuid.UUID) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	MissingTagIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type AboutRepository interface {
	GetAbout(ctx context.Context) (models.AboutMe, error)
	UpsertAbout(ctx context.Context, about models.AboutMe) (models.AboutMe, error)
}

type SiteSettingsRepository interface {
	GetSiteSettings(ctx context.Context) (models.SiteSettings, error)
	UpsertSiteSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error)
}

type AnalyticsRepository interface {
	OrdersInRange(ctx context.Context, r models.DateRange) ([]models.OrderFact, error)
	SoldItems(ctx context.Context, r models.DateRange) ([]models.ProductCount, error)
	ViewCounts(ctx context.Context, r models.DateRange) ([]models.ProductCount, error)
}

package dto

import (
	"time"

	"storefront/internal/domain/models"

	"github.com/google/uuid"
)

// PostRequest используется и для создания, и для полной замены поста.
// В multipart-запросе теги передаются повторяющимся полем tagIds.
type PostRequest struct {
	Title   string      `json:"title" form:"title" validate:"required,max=200"`
	Content string      `json:"content" form:"content" validate:"required"`
	TagIDs  []uuid.UUID `json:"tagIds" form:"-" swaggertype:"array,string"`
}

type PostResponse struct {
	ID        uuid.UUID        `json:"id" swaggertype:"string" format:"uuid"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Author    string           `json:"author"`
	CreatedAt time.Time        `json:"createdAt"`
	ImageURLs []string         `json:"imageUrls"`
	IsPinned  bool             `json:"isPinned"`
	Tags      []models.Tag     `json:"tags"`
	Comments  []models.Comment `json:"comments"`
}

type CommentRequest struct {
	Author  string `json:"author" validate:"required,max=100"`
	Content string `json:"content" validate:"required,max=2000"`
}

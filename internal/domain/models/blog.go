package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Author    string    `db:"author" json:"author"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	// Images хранит непрозрачные ссылки хранилища, а не публичные URL.
	Images   []string  `db:"image_urls" json:"imageUrls"`
	IsPinned bool      `db:"is_pinned" json:"isPinned"`
	Tags     []Tag     `json:"tags"`
	Comments []Comment `json:"comments"`
}

func (p Post) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PostID    uuid.UUID `db:"post_id" json:"postId"`
	Author    string    `db:"author" json:"author"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

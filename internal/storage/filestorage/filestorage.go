// Package filestorage хранит изображения во внешнем хранилище и выдаёт на них временные ссылки.
package filestorage

import (
	"context"
	"io"
	"time"
)

// FileStorage - хранилище изображений. Save возвращает непрозрачную ссылку,
// которая сохраняется в сущности; пустая ссылка означает, что файл не сохранён.
type FileStorage interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, ref string) error
	SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error)
}

// NoopStorage используется там, где нет учётных данных хранилища.
type NoopStorage struct{}

func NewNoopStorage() *NoopStorage {
	return &NoopStorage{}
}

func (NoopStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	return "", nil
}

func (NoopStorage) Delete(ctx context.Context, ref string) error {
	return nil
}

func (NoopStorage) SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	return "", nil
}

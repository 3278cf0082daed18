package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/storage"
	"storefront/internal/storage/filestorage"

	"github.com/google/uuid"
)

// MediaService отвечает за жизненный цикл изображений: проверка, загрузка,
// замена, удаление и выдача подписанных ссылок.
type MediaService struct {
	log         *slog.Logger
	fileStorage filestorage.FileStorage
	urlTTL      time.Duration
}

func NewMediaService(log *slog.Logger, fileStorage filestorage.FileStorage, urlTTL time.Duration) *MediaService {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}

	return &MediaService{
		log:         log,
		fileStorage: fileStorage,
		urlTTL:      urlTTL,
	}
}

// ValidateUpload проверяет размер и MIME-тип до обращения к хранилищу.
func ValidateUpload(slot models.ImageSlot, upload models.Upload) error {
	if upload.Size > slot.MaxBytes {
		return &models.ValidationError{
			Fields: map[string][]string{"file": {fmt.Sprintf("file exceeds %d MB", slot.MaxBytes>>20)}},
			Err:    storage.ErrFileTooLarge,
		}
	}

	if !models.IsAllowedImageType(upload.MediaType()) {
		return &models.ValidationError{
			Fields: map[string][]string{"file": {"only jpeg, png, gif and webp images are allowed"}},
			Err:    storage.ErrInvalidFileType,
		}
	}

	return nil
}

func (s *MediaService) Upload(ctx context.Context, slot models.ImageSlot, upload models.Upload) (string, error) {
	return s.Replace(ctx, slot, "", upload)
}

// Replace удаляет прежний файл слота и сохраняет новый.
// Пустая ссылка в ответе означает, что хранилище не настроено.
func (s *MediaService) Replace(ctx context.Context, slot models.ImageSlot, previousRef string, upload models.Upload) (string, error) {
	const op = "media_service.Replace"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slot", slot.Prefix),
		slog.String("content_type", upload.MediaType()),
		slog.Int64("size", upload.Size),
	)

	if err := ValidateUpload(slot, upload); err != nil {
		log.Warn("upload rejected", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if previousRef != "" {
		if err := s.fileStorage.Delete(ctx, previousRef); err != nil {
			// старый файл мог уже пропасть, новый всё равно сохраняем
			log.Warn("failed to delete previous image", sl.Err(err), slog.String("ref", previousRef))
		}
	}

	if upload.Open == nil {
		return "", fmt.Errorf("%s: %w", op, errors.New("upload has no content"))
	}

	body, err := upload.Open()
	if err != nil {
		log.Error("failed to open upload", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	key := slot.Prefix + "/" + uuid.NewString() + upload.Extension()

	ref, err := s.fileStorage.Save(ctx, key, upload.MediaType(), body, upload.Size)
	if err != nil {
		log.Error("failed to save image", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if ref == "" {
		log.Warn("image storage not configured, upload dropped")
	} else {
		log.Info("image stored", slog.String("ref", ref))
	}

	return ref, nil
}

func (s *MediaService) Remove(ctx context.Context, ref string) error {
	const op = "media_service.Remove"

	if ref == "" {
		return nil
	}

	if err := s.fileStorage.Delete(ctx, ref); err != nil {
		s.log.Error("failed to delete image", slog.String("op", op), slog.String("ref", ref), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveAll удаляет набор файлов, ошибки только логируются.
func (s *MediaService) RemoveAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		_ = s.Remove(ctx, ref)
	}
}

// SignedURL возвращает временную ссылку на чтение; при ошибке хранилища пустую строку.
func (s *MediaService) SignedURL(ctx context.Context, ref string) string {
	const op = "media_service.SignedURL"

	if ref == "" {
		return ""
	}

	url, err := s.fileStorage.SignedURL(ctx, ref, s.urlTTL)
	if err != nil {
		s.log.Warn("failed to sign image url", slog.String("op", op), slog.String("ref", ref), sl.Err(err))

		return ""
	}

	return url
}

func (s *MediaService) SignedURLs(ctx context.Context, refs []string) []string {
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if url := s.SignedURL(ctx, ref); url != "" {
			urls = append(urls, url)
		}
	}

	return urls
}

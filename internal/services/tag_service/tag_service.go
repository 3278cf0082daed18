package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/lib/slug"
	"storefront/internal/repository"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
)

type TagService struct {
	log  *slog.Logger
	repo repository.TagRepository
}

func NewTagService(log *slog.Logger, repo repository.TagRepository) *TagService {
	return &TagService{log: log, repo: repo}
}

func (s *TagService) CreateTag(ctx context.Context, req dto.TagRequest) (models.Tag, error) {
	const op = "tag_service.CreateTag"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	tag, err := tagFromRequest(req)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateTag(ctx, tag)
	if err != nil {
		return models.Tag{}, s.storageError(log, op, err)
	}

	log.Info("tag created", slog.String("slug", tag.Slug))

	return s.GetTag(ctx, id)
}

func (s *TagService) UpdateTag(ctx context.Context, tagID uuid.UUID, req dto.TagRequest) (models.Tag, error) {
	const op = "tag_service.UpdateTag"

	log := s.log.With(
		slog.String("op", op),
		slog.String("tag_id", tagID.String()),
	)

	tag, err := tagFromRequest(req)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	tag.ID = tagID

	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		return models.Tag{}, s.storageError(log, op, err)
	}

	log.Info("tag updated", slog.String("slug", tag.Slug))

	return s.GetTag(ctx, tagID)
}

func (s *TagService) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	const op = "tag_service.DeleteTag"

	log := s.log.With(
		slog.String("op", op),
		slog.String("tag_id", tagID.String()),
	)

	if err := s.repo.DeleteTag(ctx, tagID); err != nil {
		return s.storageError(log, op, err)
	}

	log.Info("tag deleted")

	return nil
}

func (s *TagService) GetTag(ctx context.Context, tagID uuid.UUID) (models.Tag, error) {
	const op = "tag_service.GetTag"

	tag, err := s.repo.GetTagByID(ctx, tagID)
	if err != nil {
		return models.Tag{}, s.storageError(s.log.With(slog.String("op", op)), op, err)
	}

	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "tag_service.ListTags"

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		s.log.Error("failed to list tags", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if tags == nil {
		tags = []models.Tag{}
	}

	return tags, nil
}

func tagFromRequest(req dto.TagRequest) (models.Tag, error) {
	name := strings.TrimSpace(req.Name)

	tagSlug := slug.Generate(name)
	if tagSlug == "" {
		return models.Tag{}, models.NewValidationError("name", "must contain at least one letter or digit")
	}

	return models.Tag{
		Name:  name,
		Slug:  tagSlug,
		Color: req.Color,
	}, nil
}

// storageError: конфликт и отсутствие записи ожидаемы и не логируются как ошибки.
func (s *TagService) storageError(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrTagExists):
		log.Info("tag name or slug already taken")
	case errors.Is(err, storage.ErrNotFound):
		log.Debug("tag not found")
	default:
		log.Error("tag storage failure", sl.Err(err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

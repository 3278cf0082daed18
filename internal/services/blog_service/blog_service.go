package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/repository"
	media "storefront/internal/services/media_service"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
)

type ImageService interface {
	Upload(ctx context.Context, slot models.ImageSlot, upload models.Upload) (string, error)
	RemoveAll(ctx context.Context, refs []string)
	SignedURLs(ctx context.Context, refs []string) []string
}

type TagLookup interface {
	MissingTagIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type BlogService struct {
	log    *slog.Logger
	repo   repository.PostRepository
	tags   TagLookup
	images ImageService
}

func NewBlogService(log *slog.Logger, repo repository.PostRepository, tags TagLookup, images ImageService) *BlogService {
	return &BlogService{log: log, repo: repo, tags: tags, images: images}
}

// CreatePost создаёт пост от имени author; изображения загружаются до записи в базу.
func (s *BlogService) CreatePost(ctx context.Context, req dto.PostRequest, author string, images []models.Upload) (*dto.PostResponse, error) {
	const op = "blog_service.CreatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("author", sl.MaskName(author)),
	)

	log.Info("creating new blog post", slog.Int("images", len(images)))

	if err := s.validate(ctx, req.TagIDs, images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refs, err := s.upload(ctx, images)
	if err != nil {
		log.Error("failed to upload images", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post := models.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  author,
		Images:  refs,
		Tags:    tagRefs(req.TagIDs),
	}

	id, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		s.images.RemoveAll(ctx, refs)
		log.Error("failed to save post", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.String("post_id", id.String()))

	return s.GetPost(ctx, id)
}

// UpdatePost полностью заменяет поля и теги. Новые изображения, если переданы,
// заменяют прежний набор целиком.
func (s *BlogService) UpdatePost(ctx context.Context, postID uuid.UUID, req dto.PostRequest, images []models.Upload) (*dto.PostResponse, error) {
	const op = "blog_service.UpdatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	if err := s.validate(ctx, req.TagIDs, images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(images) > 0 {
		s.images.RemoveAll(ctx, post.Images)

		refs, err := s.upload(ctx, images)
		if err != nil {
			log.Error("failed to upload images", sl.Err(err))

			// старые файлы уже удалены, пост не должен на них ссылаться
			post.Images = nil
			if uerr := s.repo.UpdatePost(ctx, post); uerr != nil {
				log.Error("failed to clear post images", sl.Err(uerr))
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}
		post.Images = refs
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Tags = tagRefs(req.TagIDs)

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, s.lookupError(log, op, err)
	}

	log.Info("post updated")

	return s.GetPost(ctx, postID)
}

func (s *BlogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	const op = "blog_service.DeletePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return s.lookupError(log, op, err)
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return s.lookupError(log, op, err)
	}

	s.images.RemoveAll(ctx, post.Images)

	log.Info("post deleted")

	return nil
}

func (s *BlogService) GetPost(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error) {
	const op = "blog_service.GetPost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	resp := s.toResponse(ctx, post)

	return &resp, nil
}

func (s *BlogService) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[dto.PostResponse], error) {
	const op = "blog_service.ListPosts"

	posts, total, err := s.repo.ListPosts(ctx, filter, page)
	if err != nil {
		s.log.Error("failed to list posts", slog.String("op", op), sl.Err(err))

		return models.Page[dto.PostResponse]{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.NewPage(s.toResponses(ctx, posts), total, page), nil
}

func (s *BlogService) ListPinned(ctx context.Context) ([]dto.PostResponse, error) {
	const op = "blog_service.ListPinned"

	posts, err := s.repo.ListPinnedPosts(ctx)
	if err != nil {
		s.log.Error("failed to list pinned posts", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.toResponses(ctx, posts), nil
}

func (s *BlogService) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) (*dto.PostResponse, error) {
	const op = "blog_service.SetPinned"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
		slog.Bool("pinned", pinned),
	)

	if err := s.repo.SetPinned(ctx, postID, pinned); err != nil {
		return nil, s.lookupError(log, op, err)
	}

	log.Info("pin state changed")

	return s.GetPost(ctx, postID)
}

func (s *BlogService) AddComment(ctx context.Context, postID uuid.UUID, req dto.CommentRequest) (models.Comment, error) {
	const op = "blog_service.AddComment"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	comment, err := s.repo.AddComment(ctx, models.Comment{
		PostID:  postID,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		return models.Comment{}, s.lookupError(log, op, err)
	}

	log.Debug("comment added", slog.String("comment_id", comment.ID.String()))

	return comment, nil
}

func (s *BlogService) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	const op = "blog_service.ListComments"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	if _, err := s.repo.GetPostByID(ctx, postID); err != nil {
		return nil, s.lookupError(log, op, err)
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, s.lookupError(log, op, err)
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	return comments, nil
}

func (s *BlogService) validate(ctx context.Context, tagIDs []uuid.UUID, images []models.Upload) error {
	vErr := &models.ValidationError{}

	for _, img := range images {
		if err := media.ValidateUpload(models.SlotPost, img); err != nil {
			var fe *models.ValidationError
			if errors.As(err, &fe) {
				for _, msg := range fe.Fields["file"] {
					vErr.Add("images", msg)
				}
			}
		}
	}

	if len(tagIDs) > 0 {
		missing, err := s.tags.MissingTagIDs(ctx, tagIDs)
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

func (s *BlogService) upload(ctx context.Context, images []models.Upload) ([]string, error) {
	refs := make([]string, 0, len(images))
	for _, img := range images {
		ref, err := s.images.Upload(ctx, models.SlotPost, img)
		if err != nil {
			s.images.RemoveAll(ctx, refs)
			return nil, err
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

// lookupError не логирует отсутствие записи как ошибку.
func (s *BlogService) lookupError(log *slog.Logger, op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug("post not found")
	} else {
		log.Error("post storage failure", sl.Err(err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

// toResponse строит ответ с подписанными ссылками, не трогая саму сущность.
func (s *BlogService) toResponse(ctx context.Context, post models.Post) dto.PostResponse {
	tags := post.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	comments := post.Comments
	if comments == nil {
		comments = []models.Comment{}
	}

	return dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.Author,
		CreatedAt: post.CreatedAt,
		ImageURLs: s.images.SignedURLs(ctx, post.Images),
		IsPinned:  post.IsPinned,
		Tags:      tags,
		Comments:  comments,
	}
}

func (s *BlogService) toResponses(ctx context.Context, posts []models.Post) []dto.PostResponse {
	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.toResponse(ctx, p))
	}

	return out
}

func tagRefs(ids []uuid.UUID) []models.Tag {
	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, models.Tag{ID: id})
	}

	return tags
}

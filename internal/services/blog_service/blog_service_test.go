package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository реализация мок-репозитория
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(ctx context.Context, post models.Post) (uuid.UUID, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(ctx context.Context, post models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) DeletePost(ctx context.Context, postID uuid.UUID) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostRepository) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) ListPinnedPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error {
	args := m.Called(ctx, postID, pinned)
	return args.Error(0)
}

func (m *MockPostRepository) AddComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockPostRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

type MockTagLookup struct {
	mock.Mock
}

func (m *MockTagLookup) MissingTagIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, slot models.ImageSlot, upload models.Upload) (string, error) {
	args := m.Called(ctx, slot, upload.Filename)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) RemoveAll(ctx context.Context, refs []string) {
	m.Called(ctx, refs)
}

func (m *MockImageService) SignedURLs(ctx context.Context, refs []string) []string {
	urls := make([]string, 0, len(refs))
	for _, r := range refs {
		urls = append(urls, "https://signed/"+r)
	}
	return urls
}

func image(name, contentType string, size int64) models.Upload {
	return models.Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("x")), nil
		},
	}
}

func newTestBlogService() (*BlogService, *MockPostRepository, *MockTagLookup, *MockImageService) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := new(MockPostRepository)
	tags := new(MockTagLookup)
	images := new(MockImageService)

	return NewBlogService(log, repo, tags, images), repo, tags, images
}

func TestBlogService_CreatePost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	tagID := uuid.New()
	unknownTag := uuid.New()

	tests := []struct {
		name         string
		req          dto.PostRequest
		images       []models.Upload
		mockSetup    func(repo *MockPostRepository, tags *MockTagLookup, images *MockImageService)
		wantErr      bool
		wantField    string
		wantImageURL string
	}{
		{
			name:   "successful creation with image",
			req:    dto.PostRequest{Title: "Hello", Content: "World", TagIDs: []uuid.UUID{tagID}},
			images: []models.Upload{image("a.png", "image/png", 100)},
			mockSetup: func(repo *MockPostRepository, tags *MockTagLookup, images *MockImageService) {
				tags.On("MissingTagIDs", ctx, []uuid.UUID{tagID}).Return([]uuid.UUID{}, nil)
				images.On("Upload", ctx, models.SlotPost, "a.png").Return("posts/a.png", nil)
				repo.On("CreatePost", ctx, mock.MatchedBy(func(p models.Post) bool {
					return p.Title == "Hello" && p.Author == "admin" &&
						len(p.Images) == 1 && p.Images[0] == "posts/a.png" &&
						len(p.Tags) == 1 && p.Tags[0].ID == tagID
				})).Return(postID, nil)
				repo.On("GetPostByID", ctx, postID).Return(models.Post{
					ID: postID, Title: "Hello", Content: "World", Author: "admin",
					Images: []string{"posts/a.png"}, CreatedAt: time.Now(),
				}, nil)
			},
			wantImageURL: "https://signed/posts/a.png",
		},
		{
			name: "unknown tag",
			req:  dto.PostRequest{Title: "Hello", Content: "World", TagIDs: []uuid.UUID{unknownTag}},
			mockSetup: func(repo *MockPostRepository, tags *MockTagLookup, images *MockImageService) {
				tags.On("MissingTagIDs", ctx, []uuid.UUID{unknownTag}).Return([]uuid.UUID{unknownTag}, nil)
			},
			wantErr:   true,
			wantField: "tagIds",
		},
		{
			name:   "invalid image type rejected before storage",
			req:    dto.PostRequest{Title: "Hello", Content: "World"},
			images: []models.Upload{image("a.pdf", "application/pdf", 100)},
			mockSetup: func(repo *MockPostRepository, tags *MockTagLookup, images *MockImageService) {
			},
			wantErr:   true,
			wantField: "images",
		},
		{
			name:   "repository failure removes uploaded images",
			req:    dto.PostRequest{Title: "Hello", Content: "World"},
			images: []models.Upload{image("a.png", "image/png", 100)},
			mockSetup: func(repo *MockPostRepository, tags *MockTagLookup, images *MockImageService) {
				images.On("Upload", ctx, models.SlotPost, "a.png").Return("posts/a.png", nil)
				repo.On("CreatePost", ctx, mock.Anything).Return(uuid.Nil, errors.New("db down"))
				images.On("RemoveAll", ctx, []string{"posts/a.png"}).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, tags, images := newTestBlogService()
			tt.mockSetup(repo, tags, images)

			resp, err := service.CreatePost(ctx, tt.req, "admin", tt.images)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantField != "" {
					var vErr *models.ValidationError
					require.ErrorAs(t, err, &vErr)
					assert.Contains(t, vErr.Fields, tt.wantField)
					images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
					repo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
				}
				images.AssertExpectations(t)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, postID, resp.ID)
			assert.Equal(t, []string{tt.wantImageURL}, resp.ImageURLs)
			assert.NotNil(t, resp.Tags)
			assert.NotNil(t, resp.Comments)
			repo.AssertExpectations(t)
		})
	}
}

func TestBlogService_UpdatePost_ReplacesImages(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	service, repo, _, images := newTestBlogService()

	existing := models.Post{ID: postID, Title: "Old", Content: "Old", Images: []string{"posts/old.png"}}

	repo.On("GetPostByID", ctx, postID).Return(existing, nil).Once()
	images.On("RemoveAll", ctx, []string{"posts/old.png"}).Once()
	images.On("Upload", ctx, models.SlotPost, "new.png").Return("posts/new.png", nil).Once()
	repo.On("UpdatePost", ctx, mock.MatchedBy(func(p models.Post) bool {
		return p.Title == "New" && len(p.Images) == 1 && p.Images[0] == "posts/new.png"
	})).Return(nil).Once()
	repo.On("GetPostByID", ctx, postID).Return(models.Post{ID: postID, Title: "New", Images: []string{"posts/new.png"}}, nil).Once()

	resp, err := service.UpdatePost(ctx, postID, dto.PostRequest{Title: "New", Content: "New"}, []models.Upload{image("new.png", "image/png", 10)})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Title)
	assert.Equal(t, []string{"https://signed/posts/new.png"}, resp.ImageURLs)

	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestBlogService_UpdatePost_UploadFailureClearsImages(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	service, repo, _, images := newTestBlogService()

	existing := models.Post{ID: postID, Title: "Old", Content: "Old", Images: []string{"posts/old.png"}}
	uploadErr := errors.New("s3 unavailable")

	repo.On("GetPostByID", ctx, postID).Return(existing, nil).Once()
	images.On("RemoveAll", ctx, []string{"posts/old.png"}).Once()
	images.On("Upload", ctx, models.SlotPost, "new.png").Return("", uploadErr).Once()
	images.On("RemoveAll", ctx, []string{}).Once()
	repo.On("UpdatePost", ctx, mock.MatchedBy(func(p models.Post) bool {
		return p.ID == postID && p.Title == "Old" && len(p.Images) == 0
	})).Return(nil).Once()

	_, err := service.UpdatePost(ctx, postID, dto.PostRequest{Title: "New", Content: "New"}, []models.Upload{image("new.png", "image/png", 10)})
	require.ErrorIs(t, err, uploadErr)

	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestBlogService_UpdatePost_NotFound(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	service, repo, _, _ := newTestBlogService()

	repo.On("GetPostByID", ctx, postID).Return(models.Post{}, storage.ErrNotFound)

	_, err := service.UpdatePost(ctx, postID, dto.PostRequest{Title: "x", Content: "y"}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBlogService_DeletePost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(repo *MockPostRepository, images *MockImageService)
		wantErr   error
	}{
		{
			name: "deletes images after row",
			mockSetup: func(repo *MockPostRepository, images *MockImageService) {
				repo.On("GetPostByID", ctx, postID).Return(models.Post{ID: postID, Images: []string{"posts/1.png", "posts/2.png"}}, nil)
				repo.On("DeletePost", ctx, postID).Return(nil)
				images.On("RemoveAll", ctx, []string{"posts/1.png", "posts/2.png"}).Once()
			},
		},
		{
			name: "not found",
			mockSetup: func(repo *MockPostRepository, images *MockImageService) {
				repo.On("GetPostByID", ctx, postID).Return(models.Post{}, storage.ErrNotFound)
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, images := newTestBlogService()
			tt.mockSetup(repo, images)

			err := service.DeletePost(ctx, postID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				images.AssertNotCalled(t, "RemoveAll", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			repo.AssertExpectations(t)
			images.AssertExpectations(t)
		})
	}
}

func TestBlogService_ListPosts(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestBlogService()

	filter := models.PostFilter{SearchTerm: "go"}
	page := models.NewPageRequest(2, 1)

	repo.On("ListPosts", ctx, filter, page).Return([]models.Post{{ID: uuid.New(), Title: "Go"}}, 3, nil)

	got, err := service.ListPosts(ctx, filter, page)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 1, got.PageSize)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, []string{}, got.Items[0].ImageURLs)
}

func TestBlogService_Comments(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	t.Run("add comment to missing post", func(t *testing.T) {
		service, repo, _, _ := newTestBlogService()
		repo.On("AddComment", ctx, mock.Anything).Return(models.Comment{}, storage.ErrNotFound)

		_, err := service.AddComment(ctx, postID, dto.CommentRequest{Author: "a", Content: "b"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list comments of missing post", func(t *testing.T) {
		service, repo, _, _ := newTestBlogService()
		repo.On("GetPostByID", ctx, postID).Return(models.Post{}, storage.ErrNotFound)

		_, err := service.ListComments(ctx, postID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		repo.AssertNotCalled(t, "ListComments", mock.Anything, mock.Anything)
	})

	t.Run("list comments returns empty slice", func(t *testing.T) {
		service, repo, _, _ := newTestBlogService()
		repo.On("GetPostByID", ctx, postID).Return(models.Post{ID: postID}, nil)
		repo.On("ListComments", ctx, postID).Return([]models.Comment(nil), nil)

		comments, err := service.ListComments(ctx, postID)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})
}

func TestBlogService_SetPinned(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	service, repo, _, _ := newTestBlogService()

	repo.On("SetPinned", ctx, postID, true).Return(nil)
	repo.On("GetPostByID", ctx, postID).Return(models.Post{ID: postID, IsPinned: true}, nil)

	resp, err := service.SetPinned(ctx, postID, true)
	require.NoError(t, err)
	assert.True(t, resp.IsPinned)
}

package services_test

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
	services "storefront/internal/services/media_service"
	"storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockFileStorage) SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, ref, ttl)
	return args.String(0), args.Error(1)
}

func testUpload(contentType string, size int64) models.Upload {
	return models.Upload{
		Filename:    "photo.bin",
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("image bytes")), nil
		},
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		slot    models.ImageSlot
		upload  models.Upload
		wantErr error
	}{
		{
			name:   "png within limit",
			slot:   models.SlotPost,
			upload: testUpload("image/png", 1024),
		},
		{
			name:   "content type with params",
			slot:   models.SlotProduct,
			upload: testUpload("Image/JPEG; charset=binary", 1024),
		},
		{
			name:   "exactly at limit",
			slot:   models.SlotLogo,
			upload: testUpload("image/webp", models.MaxLogoSize),
		},
		{
			name:    "logo over 5MB",
			slot:    models.SlotLogo,
			upload:  testUpload("image/png", models.MaxLogoSize+1),
			wantErr: storage.ErrFileTooLarge,
		},
		{
			name:    "post image over 10MB",
			slot:    models.SlotPost,
			upload:  testUpload("image/png", models.MaxImageSize+1),
			wantErr: storage.ErrFileTooLarge,
		},
		{
			name:    "pdf rejected",
			slot:    models.SlotPost,
			upload:  testUpload("application/pdf", 10),
			wantErr: storage.ErrInvalidFileType,
		},
		{
			name:    "svg rejected",
			slot:    models.SlotAbout,
			upload:  testUpload("image/svg+xml", 10),
			wantErr: storage.ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateUpload(tt.slot, tt.upload)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, "file")
		})
	}
}

func TestMediaService_Replace(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	keyFor := func(prefix, ext string) interface{} {
		return mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, prefix+"/") && strings.HasSuffix(key, ext)
		})
	}

	tests := []struct {
		name      string
		previous  string
		upload    models.Upload
		mockSetup func(fs *MockFileStorage)
		wantRef   string
		wantErr   bool
	}{
		{
			name:   "new upload",
			upload: testUpload("image/png", 100),
			mockSetup: func(fs *MockFileStorage) {
				fs.On("Save", ctx, keyFor("products", ".png"), "image/png", mock.Anything, int64(100)).
					Return("products/new.png", nil).Once()
			},
			wantRef: "products/new.png",
		},
		{
			name:     "previous image deleted first",
			previous: "products/old.png",
			upload:   testUpload("image/jpeg", 100),
			mockSetup: func(fs *MockFileStorage) {
				fs.On("Delete", ctx, "products/old.png").Return(nil).Once()
				fs.On("Save", ctx, keyFor("products", ".jpg"), "image/jpeg", mock.Anything, int64(100)).
					Return("products/new.jpg", nil).Once()
			},
			wantRef: "products/new.jpg",
		},
		{
			name:     "delete failure does not block upload",
			previous: "products/gone.png",
			upload:   testUpload("image/gif", 100),
			mockSetup: func(fs *MockFileStorage) {
				fs.On("Delete", ctx, "products/gone.png").Return(errors.New("not found")).Once()
				fs.On("Save", ctx, keyFor("products", ".gif"), "image/gif", mock.Anything, int64(100)).
					Return("products/new.gif", nil).Once()
			},
			wantRef: "products/new.gif",
		},
		{
			name:     "invalid type keeps previous image",
			previous: "products/old.png",
			upload:   testUpload("text/plain", 100),
			mockSetup: func(fs *MockFileStorage) {
			},
			wantErr: true,
		},
		{
			name:   "storage not configured",
			upload: testUpload("image/webp", 100),
			mockSetup: func(fs *MockFileStorage) {
				fs.On("Save", ctx, keyFor("products", ".webp"), "image/webp", mock.Anything, int64(100)).
					Return("", nil).Once()
			},
			wantRef: "",
		},
		{
			name:   "provider error",
			upload: testUpload("image/png", 100),
			mockSetup: func(fs *MockFileStorage) {
				fs.On("Save", ctx, mock.Anything, "image/png", mock.Anything, int64(100)).
					Return("", errors.New("s3 unavailable")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := new(MockFileStorage)
			tt.mockSetup(fs)

			service := services.NewMediaService(log, fs, time.Hour)

			ref, err := service.Replace(ctx, models.SlotProduct, tt.previous, tt.upload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRef, ref)
			}

			fs.AssertExpectations(t)
		})
	}
}

func TestMediaService_SignedURL(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	fs := new(MockFileStorage)
	fs.On("SignedURL", ctx, "posts/a.png", 30*time.Minute).Return("https://cdn/posts/a.png?sig=1", nil)
	fs.On("SignedURL", ctx, "posts/broken.png", 30*time.Minute).Return("", errors.New("boom"))

	service := services.NewMediaService(log, fs, 30*time.Minute)

	assert.Equal(t, "", service.SignedURL(ctx, ""))
	assert.Equal(t, "https://cdn/posts/a.png?sig=1", service.SignedURL(ctx, "posts/a.png"))
	assert.Equal(t, "", service.SignedURL(ctx, "posts/broken.png"))

	urls := service.SignedURLs(ctx, []string{"posts/a.png", "posts/broken.png"})
	assert.Equal(t, []string{"https://cdn/posts/a.png?sig=1"}, urls)
}

func TestMediaService_Remove(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	fs := new(MockFileStorage)
	fs.On("Delete", ctx, "about/me.png").Return(nil).Once()

	service := services.NewMediaService(log, fs, time.Hour)

	require.NoError(t, service.Remove(ctx, ""))
	require.NoError(t, service.Remove(ctx, "about/me.png"))
	fs.AssertExpectations(t)
}

package filestorage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalFileStorage реализация для локальной файловой системы (разработка).
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	const op = "filestorage.LocalFileStorage.Save"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	filePath, err := s.path(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, body)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return "", ctx.Err()
	}

	return key, nil
}

// Delete удаляет файл из хранилища, отсутствие файла ошибкой не считается.
func (s *LocalFileStorage) Delete(ctx context.Context, ref string) error {
	const op = "filestorage.LocalFileStorage.Delete"

	filePath, err := s.path(ref)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SignedURL для локального хранилища подписи не делает, только помечает срок действия.
func (s *LocalFileStorage) SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	if ref == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

	return s.baseURL + "/" + ref + "?" + q.Encode(), nil
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("empty key")
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

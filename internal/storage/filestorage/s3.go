package filestorage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage хранит изображения в приватном бакете S3-совместимого хранилища.
type S3Storage struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Storage возвращает (nil, nil), если не заданы endpoint или ключи.
func NewS3Storage(endpoint, region, accessKey, secretKey, bucket string) (*S3Storage, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("filestorage.NewS3Storage: bucket is required")
	}

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3Storage{
		s3:        client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", s.bucket, key, err)
	}

	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", s.bucket, ref, err)
	}

	return nil
}

func (s *S3Storage) SignedURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	if ref == "" {
		return "", nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", s.bucket, ref, err)
	}

	return req.URL, nil
}

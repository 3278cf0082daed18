package storage

import "errors"

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotFound      = errors.New("record not found")
	ErrTagExists     = errors.New("tag with this name or slug already exists")
	ErrTokenNotFound = errors.New("token not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)

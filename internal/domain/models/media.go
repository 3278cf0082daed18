package models

import (
	"io"
	"path"
	"strings"
)

const (
	MaxImageSize = 10 << 20
	MaxLogoSize  = 5 << 20
)

// ImageSlot - логическое место изображения: префикс ключа в хранилище и лимит размера.
type ImageSlot struct {
	Prefix   string
	MaxBytes int64
}

var (
	SlotPost    = ImageSlot{Prefix: "posts", MaxBytes: MaxImageSize}
	SlotProduct = ImageSlot{Prefix: "products", MaxBytes: MaxImageSize}
	SlotAbout   = ImageSlot{Prefix: "about", MaxBytes: MaxImageSize}
	SlotLogo    = ImageSlot{Prefix: "logo", MaxBytes: MaxLogoSize}
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload - загруженный файл, не привязанный к транспорту.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// MediaType возвращает MIME без параметров в нижнем регистре.
func (u Upload) MediaType() string {
	ct, _, _ := strings.Cut(u.ContentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Extension - расширение для ключа хранилища, по MIME, иначе по имени файла.
func (u Upload) Extension() string {
	if ext, ok := allowedImageTypes[u.MediaType()]; ok {
		return ext
	}
	return strings.ToLower(path.Ext(u.Filename))
}

func IsAllowedImageType(mediaType string) bool {
	_, ok := allowedImageTypes[mediaType]
	return ok
}

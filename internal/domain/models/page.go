package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page - страница результата: Items - срез [(page-1)*size, page*size), Total - полное количество.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest: page >= 1, pageSize в [1, MaxPageSize], 0 и меньше - DefaultPageSize.
func NewPageRequest(page, pageSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}
}

type PostFilter struct {
	TagIDs     []uuid.UUID
	SearchTerm string
}

type ProductFilter struct {
	TagIDs     []uuid.UUID
	SearchTerm string
	Category   string
}

// DateRange - необязательные границы по дате создания, To не включается.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

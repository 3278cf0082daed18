package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionHeader = "X-Session-Id"

// validationError переводит ошибки validator в карту поле -> сообщения.
// Имена полей берутся из json-тегов (см. RegisterTagNameFunc в httpapp).
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return models.NewValidationError("body", err.Error())
	}

	verr := &models.ValidationError{}
	for _, fe := range ves {
		verr.Add(fieldPath(fe), fieldMessage(fe))
	}

	return verr
}

// fieldPath: "CreateOrderRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "hexcolor":
		return "must be a hex color"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}

// queryParser копит ошибки разбора параметров запроса в одну ValidationError.
type queryParser struct {
	c    echo.Context
	errs *models.ValidationError
}

func newQueryParser(c echo.Context) *queryParser {
	return &queryParser{c: c, errs: &models.ValidationError{}}
}

func (p *queryParser) Int(name string, def int) int {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs.Add(name, "must be an integer")
		return def
	}

	return v
}

// UUIDs принимает как повторяющийся параметр, так и список через запятую.
func (p *queryParser) UUIDs(name string) []uuid.UUID {
	ids, err := parseUUIDList(p.c.QueryParams()[name])
	if err != nil {
		p.errs.Add(name, "must contain valid ids")
	}
	return ids
}

func (p *queryParser) String(name string) string {
	return strings.TrimSpace(p.c.QueryParam(name))
}

// Time принимает RFC 3339 или дату YYYY-MM-DD (полночь UTC).
func (p *queryParser) Time(name string) *time.Time {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}

	p.errs.Add(name, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	return nil
}

func (p *queryParser) Page() models.PageRequest {
	return models.NewPageRequest(p.Int("page", 1), p.Int("pageSize", models.DefaultPageSize))
}

func (p *queryParser) DateRange() models.DateRange {
	dr := models.DateRange{From: p.Time("from"), To: p.Time("to")}
	if dr.From != nil && dr.To != nil && !dr.From.Before(*dr.To) {
		p.errs.Add("to", "must be after from")
	}
	return dr
}

func (p *queryParser) Err() error {
	if len(p.errs.Fields) == 0 {
		return nil
	}
	return p.errs
}

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			id, err := uuid.Parse(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func toUpload(fh *multipart.FileHeader) models.Upload {
	return models.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formFile достаёт обязательный файл из multipart-поля.
func formFile(c echo.Context, field string) (models.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return models.Upload{}, models.NewValidationError(field, "is required")
	}
	return toUpload(fh), nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// actor - имя пользователя текущего запроса для author/updatedBy.
func actor(c echo.Context) string {
	if p, ok := middleware.PrincipalFrom(c); ok {
		return p.Username
	}
	return ""
}

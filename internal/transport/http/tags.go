package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListTags godoc
// @Summary Все теги
// @Description Сортировка по имени.
// @Tags tags
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Tag}
// @Router /tags [get]
func (r *Routers) ListTags(c echo.Context) error {
	const op = "http.routers.ListTags"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.TagService.ListTags(c.Request().Context())
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// GetTag godoc
// @Summary Тег по ID
// @Tags tags
// @Produce json
// @Param id path string true "ID тега" format(uuid)
// @Success 200 {object} response.Response{data=models.Tag}
// @Failure 404 {object} response.ErrorResponse
// @Router /tags/{id} [get]
func (r *Routers) GetTag(c echo.Context) error {
	const op = "http.routers.GetTag"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	res, err := r.TagService.GetTag(c.Request().Context(), id)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// CreateTag godoc
// @Summary Создание тега
// @Description Slug вычисляется из имени.
// @Tags tags
// @Accept json
// @Produce json
// @Param request body dto.TagRequest true "Тег"
// @Success 201 {object} response.Response{data=models.Tag}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Тег с таким именем или slug уже есть"
// @Security BearerAuth
// @Router /tags [post]
func (r *Routers) CreateTag(c echo.Context) error {
	const op = "http.routers.CreateTag"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.TagRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	tag, err := r.TagService.CreateTag(c.Request().Context(), req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(tag))
}

// UpdateTag godoc
// @Summary Изменение тега
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "ID тега" format(uuid)
// @Param request body dto.TagRequest true "Тег"
// @Success 200 {object} response.Response{data=models.Tag}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [put]
func (r *Routers) UpdateTag(c echo.Context) error {
	const op = "http.routers.UpdateTag"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	var req dto.TagRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	tag, err := r.TagService.UpdateTag(c.Request().Context(), id, req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tag))
}

// DeleteTag godoc
// @Summary Удаление тега
// @Tags tags
// @Param id path string true "ID тега" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (r *Routers) DeleteTag(c echo.Context) error {
	const op = "http.routers.DeleteTag"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	if err := r.TagService.DeleteTag(c.Request().Context(), id); err != nil {
		return r.respondError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

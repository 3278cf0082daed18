package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/domain/models"
	"storefront/internal/middleware"
	products "storefront/internal/services/product_service"
	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListProducts godoc
// @Summary Каталог товаров
// @Tags products
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param pageSize query int false "Размер страницы" default(10)
// @Param tagIds query []string false "Товары, содержащие все указанные теги"
// @Param category query string false "Категория (без учёта регистра)"
// @Param searchTerm query string false "Поиск по названию и описанию"
// @Success 200 {object} response.Response{data=models.Page[dto.ProductResponse]}
// @Failure 400 {object} response.ErrorResponse
// @Router /products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	filter := models.ProductFilter{
		TagIDs:     q.UUIDs("tagIds"),
		SearchTerm: q.String("searchTerm"),
		Category:   q.String("category"),
	}
	page := q.Page()
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.ProductService.ListProducts(c.Request().Context(), filter, page)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// ListCategories godoc
// @Summary Список категорий товаров
// @Tags products
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /products/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.ProductService.Categories(c.Request().Context())
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// GetProduct godoc
// @Summary Товар по ID
// @Description Каждый просмотр записывается в журнал (пользователь или X-Session-Id).
// @Tags products
// @Produce json
// @Param id path string true "ID товара" format(uuid)
// @Param X-Session-Id header string false "Идентификатор анонимной сессии"
// @Success 200 {object} response.Response{data=dto.ProductResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [get]
func (r *Routers) GetProduct(c echo.Context) error {
	const op = "http.routers.GetProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	viewer := products.Viewer{SessionID: c.Request().Header.Get(sessionHeader)}
	if p, ok := middleware.PrincipalFrom(c); ok {
		uid := p.UserID
		viewer.UserID = &uid
	}

	res, err := r.ProductService.GetProduct(c.Request().Context(), id, viewer)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// CreateProduct godoc
// @Summary Создание товара
// @Tags products
// @Accept json
// @Produce json
// @Param request body dto.ProductRequest true "Товар"
// @Success 201 {object} response.Response{data=dto.ProductResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (r *Routers) CreateProduct(c echo.Context) error {
	const op = "http.routers.CreateProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ProductRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.ProductService.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	log.Info("product created", slog.String("product_id", res.ID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(res))
}

// UpdateProduct godoc
// @Summary Изменение товара
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара" format(uuid)
// @Param request body dto.ProductRequest true "Товар"
// @Success 200 {object} response.Response{data=dto.ProductResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (r *Routers) UpdateProduct(c echo.Context) error {
	const op = "http.routers.UpdateProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	var req dto.ProductRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.ProductService.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// DeleteProduct godoc
// @Summary Удаление товара
// @Tags products
// @Param id path string true "ID товара" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [delete]
func (r *Routers) DeleteProduct(c echo.Context) error {
	const op = "http.routers.DeleteProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	if err := r.ProductService.DeleteProduct(c.Request().Context(), id); err != nil {
		return r.respondError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadProductImage godoc
// @Summary Загрузка изображения товара
// @Description multipart/form-data, поле file; до 10 МБ, jpeg/png/gif/webp. Старое изображение удаляется.
// @Tags products
// @Accept mpfd
// @Produce json
// @Param id path string true "ID товара" format(uuid)
// @Param file formData file true "Изображение"
// @Success 200 {object} response.Response{data=dto.ProductResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/image [post]
func (r *Routers) UploadProductImage(c echo.Context) error {
	const op = "http.routers.UploadProductImage"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	upload, err := formFile(c, "file")
	if err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.ProductService.SetProductImage(c.Request().Context(), id, upload)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// DeleteProductImage godoc
// @Summary Удаление изображения товара
// @Tags products
// @Param id path string true "ID товара" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/image [delete]
func (r *Routers) DeleteProductImage(c echo.Context) error {
	const op = "http.routers.DeleteProductImage"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	if err := r.ProductService.DeleteProductImage(c.Request().Context(), id); err != nil {
		return r.respondError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/domain/models"
	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// bindPost читает пост из JSON или из multipart-формы (поля title, content, tagIds, файлы images).
func (r *Routers) bindPost(c echo.Context) (dto.PostRequest, []models.Upload, error) {
	var req dto.PostRequest

	if !isMultipart(c) {
		if err := r.bindAndValidate(c, &req); err != nil {
			return req, nil, err
		}
		return req, nil, nil
	}

	if err := c.Bind(&req); err != nil {
		return req, nil, errInvalidFormat
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, errInvalidFormat
	}

	verr := &models.ValidationError{}

	ids, err := parseUUIDList(form.Value["tagIds"])
	if err != nil {
		verr.Add("tagIds", "must contain valid ids")
	}
	req.TagIDs = ids

	if err := c.Validate(&req); err != nil {
		if ve, ok := validationError(err).(*models.ValidationError); ok {
			for field, msgs := range ve.Fields {
				for _, m := range msgs {
					verr.Add(field, m)
				}
			}
		}
	}

	if len(verr.Fields) > 0 {
		return req, nil, verr
	}

	images := make([]models.Upload, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		images = append(images, toUpload(fh))
	}

	return req, images, nil
}

// ListPosts godoc
// @Summary Список постов
// @Description Закреплённые посты идут первыми, затем по дате создания (новые первыми).
// @Tags posts
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param pageSize query int false "Размер страницы" default(10)
// @Param tagIds query []string false "Посты, содержащие все указанные теги"
// @Param searchTerm query string false "Поиск по заголовку и тексту"
// @Success 200 {object} response.Response{data=models.Page[dto.PostResponse]}
// @Failure 400 {object} response.ErrorResponse
// @Router /posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	filter := models.PostFilter{
		TagIDs:     q.UUIDs("tagIds"),
		SearchTerm: q.String("searchTerm"),
	}
	page := q.Page()
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.BlogService.ListPosts(c.Request().Context(), filter, page)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// ListPinnedPosts godoc
// @Summary Закреплённые посты
// @Tags posts
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.PostResponse}
// @Router /posts/pinned [get]
func (r *Routers) ListPinnedPosts(c echo.Context) error {
	const op = "http.routers.ListPinnedPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.BlogService.ListPinned(c.Request().Context())
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// GetPost godoc
// @Summary Пост по ID
// @Tags posts
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Success 200 {object} response.Response{data=dto.PostResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id} [get]
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	res, err := r.BlogService.GetPost(c.Request().Context(), id)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// CreatePost godoc
// @Summary Создание поста
// @Description JSON или multipart/form-data с файлами images (до 10 МБ, jpeg/png/gif/webp).
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param request body dto.PostRequest true "Пост"
// @Success 201 {object} response.Response{data=dto.PostResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	req, images, err := r.bindPost(c)
	if err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.BlogService.CreatePost(c.Request().Context(), req, actor(c), images)
	if err != nil {
		return r.respondError(c, log, err)
	}

	log.Info("post created", slog.String("post_id", res.ID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(res))
}

// UpdatePost godoc
// @Summary Изменение поста
// @Description Переданные изображения заменяют весь текущий набор.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Param request body dto.PostRequest true "Пост"
// @Success 200 {object} response.Response{data=dto.PostResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	req, images, err := r.bindPost(c)
	if err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.BlogService.UpdatePost(c.Request().Context(), id, req, images)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// DeletePost godoc
// @Summary Удаление поста
// @Tags posts
// @Param id path string true "ID поста" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), id); err != nil {
		return r.respondError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// PinPost godoc
// @Summary Закрепить пост
// @Tags posts
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Success 200 {object} response.Response{data=dto.PostResponse}
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/pin [put]
func (r *Routers) PinPost(c echo.Context) error {
	return r.setPinned(c, "http.routers.PinPost", true)
}

// UnpinPost godoc
// @Summary Открепить пост
// @Tags posts
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Success 200 {object} response.Response{data=dto.PostResponse}
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/unpin [put]
func (r *Routers) UnpinPost(c echo.Context) error {
	return r.setPinned(c, "http.routers.UnpinPost", false)
}

func (r *Routers) setPinned(c echo.Context, op string, pinned bool) error {
	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	res, err := r.BlogService.SetPinned(c.Request().Context(), id, pinned)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// ListComments godoc
// @Summary Комментарии к посту
// @Description Сортировка по дате создания, старые первыми.
// @Tags comments
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Success 200 {object} response.Response{data=[]models.Comment}
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id}/comments [get]
func (r *Routers) ListComments(c echo.Context) error {
	const op = "http.routers.ListComments"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	res, err := r.BlogService.ListComments(c.Request().Context(), id)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// AddComment godoc
// @Summary Новый комментарий
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "ID поста" format(uuid)
// @Param request body dto.CommentRequest true "Комментарий"
// @Success 201 {object} response.Response{data=models.Comment}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id}/comments [post]
func (r *Routers) AddComment(c echo.Context) error {
	const op = "http.routers.AddComment"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	var req dto.CommentRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.BlogService.AddComment(c.Request().Context(), id, req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(res))
}

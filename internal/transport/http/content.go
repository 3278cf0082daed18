package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// GetAbout godoc
// @Summary Страница "обо мне"
// @Description Если страница ещё не заполнена, возвращаются пустые поля.
// @Tags about
// @Produce json
// @Success 200 {object} response.Response{data=dto.AboutResponse}
// @Router /about [get]
func (r *Routers) GetAbout(c echo.Context) error {
	const op = "http.routers.GetAbout"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.ContentService.GetAbout(c.Request().Context())
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// UpdateAbout godoc
// @Summary Изменение страницы "обо мне"
// @Tags about
// @Accept json
// @Produce json
// @Param request body dto.AboutRequest true "Содержимое"
// @Success 200 {object} response.Response{data=dto.AboutResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /about [put]
func (r *Routers) UpdateAbout(c echo.Context) error {
	const op = "http.routers.UpdateAbout"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AboutRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.ContentService.UpdateAbout(c.Request().Context(), req, actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// UploadAboutImage godoc
// @Summary Загрузка изображения для "обо мне"
// @Description multipart/form-data, поле file; до 10 МБ, jpeg/png/gif/webp.
// @Tags about
// @Accept mpfd
// @Produce json
// @Param file formData file true "Изображение"
// @Success 200 {object} response.Response{data=dto.AboutResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /about/image [post]
func (r *Routers) UploadAboutImage(c echo.Context) error {
	const op = "http.routers.UploadAboutImage"

	log := r.log.With(
		slog.String("op", op),
	)

	upload, err := formFile(c, "file")
	if err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.ContentService.SetAboutImage(c.Request().Context(), upload, actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// DeleteAboutImage godoc
// @Summary Удаление изображения "обо мне"
// @Tags about
// @Produce json
// @Success 200 {object} response.Response{data=dto.AboutResponse}
// @Security BearerAuth
// @Router /about/image [delete]
func (r *Routers) DeleteAboutImage(c echo.Context) error {
	const op = "http.routers.DeleteAboutImage"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.ContentService.DeleteAboutImage(c.Request().Context(), actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// GetSiteSettings godoc
// @Summary Настройки сайта
// @Tags site-settings
// @Produce json
// @Success 200 {object} response.Response{data=dto.SiteSettingsResponse}
// @Router /site-settings [get]
func (r *Routers) GetSiteSettings(c echo.Context) error {
	const op = "http.routers.GetSiteSettings"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.ContentService.GetSiteSettings(c.Request().Context())
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// UpdateSiteSettings godoc
// @Summary Изменение настроек сайта
// @Description Тема должна быть из каталога /site-settings/themes.
// @Tags site-settings
// @Accept json
// @Produce json
// @Param request body dto.SiteSettingsRequest true "Настройки"
// @Success 200 {object} response.Response{data=dto.SiteSettingsResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /site-settings [put]
func (r *Routers) UpdateSiteSettings(c echo.Context) error {
	const op = "http.routers.UpdateSiteSettings"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.SiteSettingsRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.ContentService.UpdateSiteSettings(c.Request().Context(), req, actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// ListThemes godoc
// @Summary Каталог тем оформления
// @Tags site-settings
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Theme}
// @Router /site-settings/themes [get]
func (r *Routers) ListThemes(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.ContentService.Themes()))
}

// UploadLogo godoc
// @Summary Загрузка логотипа
// @Description multipart/form-data, поле file; до 5 МБ, jpeg/png/gif/webp.
// @Tags site-settings
// @Accept mpfd
// @Produce json
// @Param file formData file true "Логотип"
// @Success 200 {object} response.Response{data=dto.SiteSettingsResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /site-settings/logo [post]
func (r *Routers) UploadLogo(c echo.Context) error {
	const op = "http.routers.UploadLogo"

	log := r.log.With(
		slog.String("op", op),
	)

	upload, err := formFile(c, "file")
	if err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.ContentService.SetLogo(c.Request().Context(), upload, actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// DeleteLogo godoc
// @Summary Удаление логотипа
// @Tags site-settings
// @Produce json
// @Success 200 {object} response.Response{data=dto.SiteSettingsResponse}
// @Security BearerAuth
// @Router /site-settings/logo [delete]
func (r *Routers) DeleteLogo(c echo.Context) error {
	const op = "http.routers.DeleteLogo"

	log := r.log.With(
		slog.String("op", op),
	)

	res, err := r.ContentService.DeleteLogo(c.Request().Context(), actor(c))
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/lib/logger/sl"
	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const resetRequestedMessage = "If the account exists, a password reset link has been sent"

// Login godoc
// @Summary Аутентификация пользователя
// @Description Вход по имени пользователя и паролю. Возвращает пару токенов и роль.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=dto.LoginResponse} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.LoginRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.AuthService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Description Refresh-токен одноразовый: после обмена старый токен недействителен.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh-токен"
// @Success 200 {object} response.Response{data=dto.LoginResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RefreshTokenRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	res, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// Revoke godoc
// @Summary Отзыв refresh-токена
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh-токен"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/revoke [post]
func (r *Routers) Revoke(c echo.Context) error {
	const op = "http.routers.Revoke"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RefreshTokenRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	if err := r.AuthService.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("token revoked"))
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создание аккаунта с ролью User.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} response.Response{data=dto.RegisterResponse} "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Ошибки валидации"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RegisterRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	user, err := r.AuthService.Register(c.Request().Context(), req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	log.Info("user registered successfully", slog.String("user_id", user.ID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}))
}

// RequestPasswordReset godoc
// @Summary Запрос на сброс пароля
// @Description Ответ одинаковый независимо от того, существует ли аккаунт.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "E-mail"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/request-password-reset [post]
func (r *Routers) RequestPasswordReset(c echo.Context) error {
	const op = "http.routers.RequestPasswordReset"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.PasswordResetRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	if err := r.AuthService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		log.Error("password reset request failed",
			slog.String("email", sl.MaskEmail(req.Email)),
			sl.Err(err),
		)
	}

	return c.JSON(http.StatusOK, response.MessageResponse(resetRequestedMessage))
}

// ResetPassword godoc
// @Summary Установка нового пароля по токену сброса
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Токен и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/reset-password [post]
func (r *Routers) ResetPassword(c echo.Context) error {
	const op = "http.routers.ResetPassword"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ResetPasswordRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	if err := r.AuthService.ResetPassword(c.Request().Context(), req); err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("password updated"))
}

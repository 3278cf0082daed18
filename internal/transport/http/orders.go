package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/lib/logger/sl"
	"storefront/internal/transport/http/dto"
	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// CreateOrder godoc
// @Summary Оформление заказа
// @Description Позиции с несуществующими товарами пропускаются; цена и название фиксируются на момент заказа.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Заказ"
// @Success 201 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse
// @Router /orders [post]
func (r *Routers) CreateOrder(c echo.Context) error {
	const op = "http.routers.CreateOrder"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateOrderRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	order, err := r.OrderService.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return r.respondError(c, log, err)
	}

	log.Info("order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("customer", sl.MaskEmail(order.CustomerEmail)),
	)

	return c.JSON(http.StatusCreated, response.SuccessResponse(order))
}

// ListOrders godoc
// @Summary Список заказов
// @Description Новые заказы первыми.
// @Tags orders
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param pageSize query int false "Размер страницы" default(10)
// @Success 200 {object} response.Response{data=models.Page[models.Order]}
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders [get]
func (r *Routers) ListOrders(c echo.Context) error {
	const op = "http.routers.ListOrders"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	page := q.Page()
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.OrderService.ListOrders(c.Request().Context(), page)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// GetOrder godoc
// @Summary Заказ по ID
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа" format(uuid)
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [get]
func (r *Routers) GetOrder(c echo.Context) error {
	const op = "http.routers.GetOrder"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	order, err := r.OrderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(order))
}

// UpdateOrderStatus godoc
// @Summary Смена статуса заказа
// @Description Только Admin, независимо от orders_read_role.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа" format(uuid)
// @Param request body dto.UpdateOrderStatusRequest true "Статус"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (r *Routers) UpdateOrderStatus(c echo.Context) error {
	const op = "http.routers.UpdateOrderStatus"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	var req dto.UpdateOrderStatusRequest
	if err := r.bindAndValidate(c, &req); err != nil {
		return r.writeBindError(c, log, err)
	}

	order, err := r.OrderService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(order))
}

// DeleteOrder godoc
// @Summary Удаление заказа
// @Description Только Admin, независимо от orders_read_role.
// @Tags orders
// @Param id path string true "ID заказа" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (r *Routers) DeleteOrder(c echo.Context) error {
	const op = "http.routers.DeleteOrder"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathID(c, "id")
	if err != nil {
		return r.invalidID(c)
	}

	if err := r.OrderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return r.respondError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

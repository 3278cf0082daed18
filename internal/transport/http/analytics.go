package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// OrdersSummary godoc
// @Summary Сводка по заказам
// @Description Количество, выручка и средний чек за период [from, to).
// @Tags analytics
// @Produce json
// @Param from query string false "Начало периода (YYYY-MM-DD или RFC 3339)"
// @Param to query string false "Конец периода, не включается"
// @Success 200 {object} response.Response{data=models.OrderSummary}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/orders/summary [get]
func (r *Routers) OrdersSummary(c echo.Context) error {
	const op = "http.routers.OrdersSummary"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	dr := q.DateRange()
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.AnalyticsService.Summary(c.Request().Context(), dr)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// SalesByDay godoc
// @Summary Продажи по дням
// @Description Группировка по календарной дате (UTC), по возрастанию даты.
// @Tags analytics
// @Produce json
// @Param from query string false "Начало периода"
// @Param to query string false "Конец периода, не включается"
// @Param limit query int false "Количество последних дней" default(30)
// @Success 200 {object} response.Response{data=[]models.DailySales}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/orders/sales-by-day [get]
func (r *Routers) SalesByDay(c echo.Context) error {
	const op = "http.routers.SalesByDay"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	dr := q.DateRange()
	limit := q.Int("limit", 0)
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.AnalyticsService.SalesByDay(c.Request().Context(), dr, limit)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// StatusCounts godoc
// @Summary Заказы по статусам
// @Tags analytics
// @Produce json
// @Param from query string false "Начало периода"
// @Param to query string false "Конец периода, не включается"
// @Success 200 {object} response.Response{data=[]models.StatusCount}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/orders/status-counts [get]
func (r *Routers) StatusCounts(c echo.Context) error {
	const op = "http.routers.StatusCounts"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	dr := q.DateRange()
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.AnalyticsService.StatusCounts(c.Request().Context(), dr)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// TopSoldProducts godoc
// @Summary Самые продаваемые товары
// @Tags analytics
// @Produce json
// @Param from query string false "Начало периода"
// @Param to query string false "Конец периода, не включается"
// @Param limit query int false "Количество товаров" default(10)
// @Success 200 {object} response.Response{data=[]models.ProductRank}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/products/top-sold [get]
func (r *Routers) TopSoldProducts(c echo.Context) error {
	const op = "http.routers.TopSoldProducts"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	dr := q.DateRange()
	limit := q.Int("limit", 0)
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.AnalyticsService.TopSold(c.Request().Context(), dr, limit)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

// TopViewedProducts godoc
// @Summary Самые просматриваемые товары
// @Tags analytics
// @Produce json
// @Param from query string false "Начало периода"
// @Param to query string false "Конец периода, не включается"
// @Param limit query int false "Количество товаров" default(10)
// @Success 200 {object} response.Response{data=[]models.ProductRank}
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/products/top-viewed [get]
func (r *Routers) TopViewedProducts(c echo.Context) error {
	const op = "http.routers.TopViewedProducts"

	log := r.log.With(
		slog.String("op", op),
	)

	q := newQueryParser(c)
	dr := q.DateRange()
	limit := q.Int("limit", 0)
	if err := q.Err(); err != nil {
		return r.respondError(c, log, err)
	}

	res, err := r.AnalyticsService.TopViewed(c.Request().Context(), dr, limit)
	if err != nil {
		return r.respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(res))
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultDaysLimit     = 30
	MaxDaysLimit         = 365
	DefaultProductsLimit = 10
	MaxProductsLimit     = 100

	dateLayout = "2006-01-02"
)

// AnalyticsService считает сводки в памяти по строкам из репозитория.
type AnalyticsService struct {
	log  *slog.Logger
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(log *slog.Logger, repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{log: log, repo: repo}
}

func (s *AnalyticsService) Summary(ctx context.Context, r models.DateRange) (models.OrderSummary, error) {
	const op = "analytics_service.Summary"

	facts, err := s.orders(ctx, op, r)
	if err != nil {
		return models.OrderSummary{}, err
	}

	return summarize(facts), nil
}

func (s *AnalyticsService) SalesByDay(ctx context.Context, r models.DateRange, limit int) ([]models.DailySales, error) {
	const op = "analytics_service.SalesByDay"

	facts, err := s.orders(ctx, op, r)
	if err != nil {
		return nil, err
	}

	return salesByDay(facts, clampLimit(limit, DefaultDaysLimit, MaxDaysLimit)), nil
}

func (s *AnalyticsService) StatusCounts(ctx context.Context, r models.DateRange) ([]models.StatusCount, error) {
	const op = "analytics_service.StatusCounts"

	facts, err := s.orders(ctx, op, r)
	if err != nil {
		return nil, err
	}

	return countStatuses(facts), nil
}

func (s *AnalyticsService) TopSold(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error) {
	const op = "analytics_service.TopSold"

	rows, err := s.repo.SoldItems(ctx, r)
	if err != nil {
		s.log.Error("failed to load sold items", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rankProducts(rows, clampLimit(limit, DefaultProductsLimit, MaxProductsLimit)), nil
}

func (s *AnalyticsService) TopViewed(ctx context.Context, r models.DateRange, limit int) ([]models.ProductRank, error) {
	const op = "analytics_service.TopViewed"

	rows, err := s.repo.ViewCounts(ctx, r)
	if err != nil {
		s.log.Error("failed to load view counts", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rankProducts(rows, clampLimit(limit, DefaultProductsLimit, MaxProductsLimit)), nil
}

func (s *AnalyticsService) orders(ctx context.Context, op string, r models.DateRange) ([]models.OrderFact, error) {
	facts, err := s.repo.OrdersInRange(ctx, r)
	if err != nil {
		s.log.Error("failed to load orders", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return facts, nil
}

// summarize: среднее округляется до 2 знаков, при нуле заказов равно 0.
func summarize(facts []models.OrderFact) models.OrderSummary {
	revenue := decimal.Zero
	for _, f := range facts {
		revenue = revenue.Add(f.TotalAmount)
	}

	avg := decimal.Zero
	if len(facts) > 0 {
		avg = revenue.DivRound(decimal.NewFromInt(int64(len(facts))), 2)
	}

	return models.OrderSummary{
		TotalOrders:       len(facts),
		TotalRevenue:      revenue,
		AverageOrderValue: avg,
	}
}

// salesByDay группирует по календарной дате UTC и оставляет limit последних дней с заказами.
func salesByDay(facts []models.OrderFact, limit int) []models.DailySales {
	byDate := make(map[string]*models.DailySales)
	for _, f := range facts {
		date := f.CreatedAt.UTC().Format(dateLayout)

		day, ok := byDate[date]
		if !ok {
			day = &models.DailySales{Date: date, Revenue: decimal.Zero}
			byDate[date] = day
		}
		day.OrdersCount++
		day.Revenue = day.Revenue.Add(f.TotalAmount)
	}

	days := make([]models.DailySales, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	if len(days) > limit {
		days = days[len(days)-limit:]
	}

	return days
}

// countStatuses: только встреченные статусы, по убыванию количества, затем по имени.
func countStatuses(facts []models.OrderFact) []models.StatusCount {
	counts := make(map[string]int)
	for _, f := range facts {
		counts[f.Status]++
	}

	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})

	return out
}

// rankProducts суммирует значения по товару и сортирует по убыванию.
// При равенстве сохраняется порядок первого появления товара во входных строках.
func rankProducts(rows []models.ProductCount, limit int) []models.ProductRank {
	index := make(map[uuid.UUID]int)
	ranks := make([]models.ProductRank, 0)

	for _, row := range rows {
		i, ok := index[row.ProductID]
		if !ok {
			index[row.ProductID] = len(ranks)
			ranks = append(ranks, models.ProductRank{ProductID: row.ProductID, ProductName: row.ProductName})
			i = len(ranks) - 1
		}
		ranks[i].Value += row.Count
		if row.ProductName != "" {
			ranks[i].ProductName = row.ProductName
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Value > ranks[j].Value })

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}

	return ranks
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

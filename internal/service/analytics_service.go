package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// AnalyticsRepository describes the persistence layer required by AnalyticsService.
type AnalyticsRepository interface {
	BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error)
	ProfessorPerformanceTop(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error)
	Overview(ctx context.Context) (*models.PlatformOverview, error)
}

// AnalyticsService provides read-optimised access to grouped marketplace
// aggregates with cache integration.
type AnalyticsService struct {
	repo    AnalyticsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// fetchCached wraps an aggregator call with cache lookup and query timing.
// The boolean reports whether the payload came from cache.
func fetchCached[T any](ctx context.Context, s *AnalyticsService, key, label string, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	result, err := load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, 0); err != nil && s.logger != nil {
			s.logger.Warn("cache analytics payload", zap.String("key", key), zap.Error(err))
		}
	}
	return result, false, nil
}

// BookingsBySubject returns booking counts grouped by subject.
func (s *AnalyticsService) BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, bool, error) {
	key := analyticsCacheKey("bookings_subject", filter)
	return fetchCached(ctx, s, key, "analytics_bookings_subject", func(ctx context.Context) ([]models.DimensionCount, error) {
		return s.repo.BookingsBySubject(ctx, filter)
	})
}

// BookingsByStatus returns booking counts grouped by lifecycle status.
func (s *AnalyticsService) BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, bool, error) {
	key := analyticsCacheKey("bookings_status", filter)
	return fetchCached(ctx, s, key, "analytics_bookings_status", func(ctx context.Context) ([]models.DimensionCount, error) {
		return s.repo.BookingsByStatus(ctx, filter)
	})
}

// BookingsByHour returns booking counts grouped by hour of day.
func (s *AnalyticsService) BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, bool, error) {
	key := analyticsCacheKey("bookings_hour", filter)
	return fetchCached(ctx, s, key, "analytics_bookings_hour", func(ctx context.Context) ([]models.DimensionCount, error) {
		return s.repo.BookingsByHour(ctx, filter)
	})
}

// RevenueByProfessor returns completed revenue grouped by professor.
func (s *AnalyticsService) RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, bool, error) {
	key := analyticsCacheKey("revenue_professor", filter)
	return fetchCached(ctx, s, key, "analytics_revenue_professor", func(ctx context.Context) ([]models.RevenueSummary, error) {
		return s.repo.RevenueByProfessor(ctx, filter)
	})
}

// RevenueBySubject returns completed revenue grouped by subject.
func (s *AnalyticsService) RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, bool, error) {
	key := analyticsCacheKey("revenue_subject", filter)
	return fetchCached(ctx, s, key, "analytics_revenue_subject", func(ctx context.Context) ([]models.RevenueSummary, error) {
		return s.repo.RevenueBySubject(ctx, filter)
	})
}

// RevenueByMethod returns completed payment amounts grouped by method.
func (s *AnalyticsService) RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, bool, error) {
	key := analyticsCacheKey("revenue_method", filter)
	return fetchCached(ctx, s, key, "analytics_revenue_method", func(ctx context.Context) ([]models.RevenueSummary, error) {
		return s.repo.RevenueByMethod(ctx, filter)
	})
}

// UsersByRole returns user counts grouped by role.
func (s *AnalyticsService) UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, bool, error) {
	key := analyticsCacheKey("users_role", filter)
	return fetchCached(ctx, s, key, "analytics_users_role", func(ctx context.Context) ([]models.DimensionCount, error) {
		return s.repo.UsersByRole(ctx, filter)
	})
}

// ProfessorsByCity returns professor counts grouped by city.
func (s *AnalyticsService) ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, bool, error) {
	key := analyticsCacheKey("professors_city", filter)
	return fetchCached(ctx, s, key, "analytics_professors_city", func(ctx context.Context) ([]models.DimensionCount, error) {
		return s.repo.ProfessorsByCity(ctx, filter)
	})
}

// RatingDistribution returns approved review counts per star rating.
func (s *AnalyticsService) RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, bool, error) {
	key := analyticsCacheKey("rating_distribution", filter)
	return fetchCached(ctx, s, key, "analytics_rating_distribution", func(ctx context.Context) ([]models.RatingBucket, error) {
		return s.repo.RatingDistribution(ctx, filter)
	})
}

// TopProfessors returns the professor performance leaderboard.
func (s *AnalyticsService) TopProfessors(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, bool, error) {
	key := analyticsCacheKey("top_professors", filter)
	return fetchCached(ctx, s, key, "analytics_top_professors", func(ctx context.Context) ([]models.ProfessorPerformance, error) {
		return s.repo.ProfessorPerformanceTop(ctx, filter)
	})
}

// Overview returns headline platform counts.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.PlatformOverview, bool, error) {
	key := "analytics:overview"
	return fetchCached(ctx, s, key, "analytics_overview", func(ctx context.Context) (*models.PlatformOverview, error) {
		return s.repo.Overview(ctx)
	})
}

// SystemMetrics returns a system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{}
	}
	return s.metrics.Snapshot()
}

func analyticsCacheKey(name string, filter models.AnalyticsFilter) string {
	var builder strings.Builder
	builder.WriteString("analytics:")
	builder.WriteString(name)
	if filter.DateFrom != nil {
		builder.WriteByte(':')
		builder.WriteString(filter.DateFrom.UTC().Format(time.RFC3339))
	}
	if filter.DateTo != nil {
		builder.WriteByte(':')
		builder.WriteString(filter.DateTo.UTC().Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		builder.WriteString(fmt.Sprintf(":l%d", filter.Limit))
	}
	return builder.String()
}

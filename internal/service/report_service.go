package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

// reportAggregators describes the aggregation queries the composer draws on.
type reportAggregators interface {
	BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error)
	RevenueTotals(ctx context.Context, filter models.AnalyticsFilter) (*models.RevenueTotals, error)
	UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error)
	RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error)
	ProfessorPerformanceTop(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error)
	Overview(ctx context.Context) (*models.PlatformOverview, error)
	CountUsersCreated(ctx context.Context, filter models.AnalyticsFilter) (int, error)
	BookingTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error)
	UserTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error)
}

// ReportService composes typed admin reports from the aggregation layer.
// Individual aggregator failures degrade that section to its zero value so a
// single bad query never sinks the whole report.
type ReportService struct {
	repo    reportAggregators
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportServiceConfig

	now func() time.Time
}

// ReportServiceConfig governs report composition defaults.
type ReportServiceConfig struct {
	TopLimit int
	CacheTTL time.Duration
}

// NewReportService constructs the report service.
func NewReportService(repo reportAggregators, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = 10
	}
	return &ReportService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Compose builds the report for the requested type and window. Explicit dates
// win over the period default.
func (s *ReportService) Compose(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	switch req.Type {
	case dto.ReportTypeUsers, dto.ReportTypeBookings, dto.ReportTypeRevenue, dto.ReportTypePerformance:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report type %q", req.Type))
	}

	window := DefaultReportRange(Period(req.Period), s.now())
	if req.DateFrom != nil {
		window.From = req.DateFrom
	}
	if req.DateTo != nil {
		window.To = req.DateTo
	}
	if window.From != nil && window.To != nil && window.From.After(*window.To) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_from must not be after date_to")
	}
	filter := models.AnalyticsFilter{DateFrom: window.From, DateTo: window.To, Limit: s.cfg.TopLimit}

	cacheKey := reportCacheKey(req.Type, window)
	if s.cache != nil {
		var cached dto.Report
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	report := &dto.Report{
		Type:        req.Type,
		Period:      req.Period,
		GeneratedAt: s.now(),
	}
	if window.From != nil {
		report.DateFrom = window.From.UTC().Format(time.RFC3339)
	}
	if window.To != nil {
		report.DateTo = window.To.UTC().Format(time.RFC3339)
	}

	switch req.Type {
	case dto.ReportTypeUsers:
		report.Users = s.composeUsers(ctx, filter)
	case dto.ReportTypeBookings:
		report.Bookings = s.composeBookings(ctx, filter)
	case dto.ReportTypeRevenue:
		report.Revenue = s.composeRevenue(ctx, filter)
	case dto.ReportTypePerformance:
		report.Performance = s.composePerformance(ctx, filter)
	}

	if s.metrics != nil {
		s.metrics.CountReport(string(req.Type))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache report", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return report, nil
}

// section returns the aggregator result, degrading to the zero value when the
// query failed.
func section[T any](s *ReportService, name string, value T, err error) T {
	if err != nil {
		s.logger.Warn("report section degraded", zap.String("section", name), zap.Error(err))
		var zero T
		return zero
	}
	return value
}

func (s *ReportService) composeUsers(ctx context.Context, filter models.AnalyticsFilter) *dto.UsersReport {
	byRole, err := s.repo.UsersByRole(ctx, filter)
	byRole = section(s, "users_by_role", byRole, err)
	byCity, err := s.repo.ProfessorsByCity(ctx, filter)
	byCity = section(s, "professors_by_city", byCity, err)
	trend, err := s.repo.UserTrend(ctx, filter)
	trend = section(s, "user_trend", trend, err)
	newUsers, err := s.repo.CountUsersCreated(ctx, filter)
	newUsers = section(s, "users_created", newUsers, err)
	overview, err := s.repo.Overview(ctx)
	overview = section(s, "overview", overview, err)

	summary := dto.UsersSummary{NewUsers: newUsers}
	if overview != nil {
		summary.TotalUsers = overview.TotalUsers
		summary.Professors = overview.TotalProfessors
		summary.Parents = overview.TotalParents
	}
	return &dto.UsersReport{Summary: summary, ByRole: byRole, ByCity: byCity, Trend: trend}
}

func (s *ReportService) composeBookings(ctx context.Context, filter models.AnalyticsFilter) *dto.BookingsReport {
	byStatus, err := s.repo.BookingsByStatus(ctx, filter)
	byStatus = section(s, "bookings_by_status", byStatus, err)
	bySubject, err := s.repo.BookingsBySubject(ctx, filter)
	bySubject = section(s, "bookings_by_subject", bySubject, err)
	byHour, err := s.repo.BookingsByHour(ctx, filter)
	byHour = section(s, "bookings_by_hour", byHour, err)
	trend, err := s.repo.BookingTrend(ctx, filter)
	trend = section(s, "booking_trend", trend, err)
	newUsers, err := s.repo.CountUsersCreated(ctx, filter)
	newUsers = section(s, "users_created", newUsers, err)

	var summary dto.BookingsSummary
	for _, row := range byStatus {
		summary.TotalBookings += row.Count
		switch models.BookingStatus(row.Dimension) {
		case models.BookingPending:
			summary.Pending = row.Count
		case models.BookingConfirmed:
			summary.Confirmed = row.Count
		case models.BookingCompleted:
			summary.Completed = row.Count
		case models.BookingCancelled:
			summary.Cancelled = row.Count
		}
	}
	summary.CompletionRate = Rate(summary.Completed, summary.TotalBookings)
	summary.ConfirmationRate = Rate(summary.Confirmed+summary.Completed, summary.TotalBookings)
	summary.CancellationRate = Rate(summary.Cancelled, summary.TotalBookings)
	summary.VisitorToBookingRate = Rate(summary.TotalBookings, newUsers)

	return &dto.BookingsReport{Summary: summary, BySubject: bySubject, ByStatus: byStatus, ByHour: byHour, Trend: trend}
}

func (s *ReportService) composeRevenue(ctx context.Context, filter models.AnalyticsFilter) *dto.RevenueReport {
	totals, err := s.repo.RevenueTotals(ctx, filter)
	totals = section(s, "revenue_totals", totals, err)
	byProfessor, err := s.repo.RevenueByProfessor(ctx, filter)
	byProfessor = section(s, "revenue_by_professor", byProfessor, err)
	bySubject, err := s.repo.RevenueBySubject(ctx, filter)
	bySubject = section(s, "revenue_by_subject", bySubject, err)
	byMethod, err := s.repo.RevenueByMethod(ctx, filter)
	byMethod = section(s, "revenue_by_method", byMethod, err)
	trend, err := s.repo.BookingTrend(ctx, filter)
	trend = section(s, "booking_trend", trend, err)

	var summary dto.RevenueTotals
	if totals != nil {
		summary.TotalRevenue = totals.TotalRevenue
		summary.CompletedBookings = totals.CompletedBookings
		summary.AverageBookingValue = SafeAvg(totals.TotalRevenue, totals.CompletedBookings)
	}
	return &dto.RevenueReport{Summary: summary, ByProfessor: byProfessor, BySubject: bySubject, ByMethod: byMethod, Trend: trend}
}

func (s *ReportService) composePerformance(ctx context.Context, filter models.AnalyticsFilter) *dto.PerformanceReport {
	distribution, err := s.repo.RatingDistribution(ctx, filter)
	distribution = section(s, "rating_distribution", distribution, err)
	top, err := s.repo.ProfessorPerformanceTop(ctx, filter)
	top = section(s, "top_professors", top, err)

	var summary dto.PerformanceSummary
	weighted := 0
	for _, bucket := range distribution {
		summary.TotalReviews += bucket.Count
		weighted += bucket.Rating * bucket.Count
	}
	summary.AverageRating = SafeAvg(float64(weighted), summary.TotalReviews)

	return &dto.PerformanceReport{Summary: summary, RatingDistribution: distribution, TopProfessors: top}
}

func reportCacheKey(reportType dto.ReportType, window DateRange) string {
	var builder strings.Builder
	builder.WriteString("report:")
	builder.WriteString(string(reportType))
	if window.From != nil {
		builder.WriteByte(':')
		builder.WriteString(window.From.UTC().Format(time.RFC3339))
	}
	if window.To != nil {
		builder.WriteByte(':')
		builder.WriteString(window.To.UTC().Format(time.RFC3339))
	}
	return builder.String()
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type fakeAggregators struct {
	byStatus     []models.DimensionCount
	ratings      []models.RatingBucket
	totals       *models.RevenueTotals
	newUsers     int
	overview     *models.PlatformOverview
	trendErr     error
	totalsErr    error
	seenFilter   models.AnalyticsFilter
	statusCalled bool
}

func (f *fakeAggregators) BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (f *fakeAggregators) BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.statusCalled = true
	f.seenFilter = filter
	return f.byStatus, nil
}

func (f *fakeAggregators) BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (f *fakeAggregators) RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return nil, nil
}

func (f *fakeAggregators) RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return nil, nil
}

func (f *fakeAggregators) RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return nil, nil
}

func (f *fakeAggregators) RevenueTotals(ctx context.Context, filter models.AnalyticsFilter) (*models.RevenueTotals, error) {
	if f.totalsErr != nil {
		return nil, f.totalsErr
	}
	return f.totals, nil
}

func (f *fakeAggregators) UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (f *fakeAggregators) ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (f *fakeAggregators) RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error) {
	return f.ratings, nil
}

func (f *fakeAggregators) ProfessorPerformanceTop(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error) {
	return nil, nil
}

func (f *fakeAggregators) Overview(ctx context.Context) (*models.PlatformOverview, error) {
	return f.overview, nil
}

func (f *fakeAggregators) CountUsersCreated(ctx context.Context, filter models.AnalyticsFilter) (int, error) {
	return f.newUsers, nil
}

func (f *fakeAggregators) BookingTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error) {
	if f.trendErr != nil {
		return nil, f.trendErr
	}
	return []models.TrendPoint{{Date: "2024-03-01", Count: 2, Revenue: 90}}, nil
}

func (f *fakeAggregators) UserTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error) {
	return nil, nil
}

func newTestReportService(repo reportAggregators) *ReportService {
	svc := NewReportService(repo, nil, nil, zap.NewNop(), ReportServiceConfig{})
	svc.now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestComposeRejectsUnknownType(t *testing.T) {
	svc := newTestReportService(&fakeAggregators{})

	_, err := svc.Compose(context.Background(), dto.ReportRequest{Type: "unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report type")
}

func TestComposeBookingsDerivesRates(t *testing.T) {
	repo := &fakeAggregators{
		byStatus: []models.DimensionCount{
			{Dimension: "pending", Count: 2},
			{Dimension: "confirmed", Count: 3},
			{Dimension: "completed", Count: 4},
			{Dimension: "cancelled", Count: 1},
		},
		newUsers: 20,
	}
	svc := newTestReportService(repo)

	report, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeBookings, Period: "month"})
	require.NoError(t, err)
	require.NotNil(t, report.Bookings)

	summary := report.Bookings.Summary
	assert.Equal(t, 10, summary.TotalBookings)
	assert.Equal(t, 4, summary.Completed)
	assert.InDelta(t, 40.0, summary.CompletionRate, 0.001)
	assert.InDelta(t, 70.0, summary.ConfirmationRate, 0.001)
	assert.InDelta(t, 10.0, summary.CancellationRate, 0.001)
	assert.InDelta(t, 50.0, summary.VisitorToBookingRate, 0.001)
}

func TestComposeBookingsZeroDenominators(t *testing.T) {
	svc := newTestReportService(&fakeAggregators{})

	report, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeBookings, Period: "month"})
	require.NoError(t, err)
	require.NotNil(t, report.Bookings)

	summary := report.Bookings.Summary
	assert.Equal(t, 0, summary.TotalBookings)
	assert.Equal(t, 0.0, summary.CompletionRate)
	assert.Equal(t, 0.0, summary.VisitorToBookingRate)
}

func TestComposeRevenueAverages(t *testing.T) {
	repo := &fakeAggregators{totals: &models.RevenueTotals{CompletedBookings: 4, TotalRevenue: 200}}
	svc := newTestReportService(repo)

	report, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeRevenue, Period: "month"})
	require.NoError(t, err)
	require.NotNil(t, report.Revenue)
	assert.Equal(t, 200.0, report.Revenue.Summary.TotalRevenue)
	assert.Equal(t, 50.0, report.Revenue.Summary.AverageBookingValue)
}

func TestComposeRevenueDegradesFailedSection(t *testing.T) {
	repo := &fakeAggregators{totalsErr: assert.AnError, trendErr: assert.AnError}
	svc := newTestReportService(repo)

	report, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeRevenue, Period: "month"})
	require.NoError(t, err)
	require.NotNil(t, report.Revenue)
	assert.Equal(t, 0.0, report.Revenue.Summary.TotalRevenue)
	assert.Empty(t, report.Revenue.Trend)
}

func TestComposePerformanceWeightedAverage(t *testing.T) {
	repo := &fakeAggregators{ratings: []models.RatingBucket{
		{Rating: 5, Count: 3},
		{Rating: 4, Count: 1},
	}}
	svc := newTestReportService(repo)

	report, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypePerformance, Period: "month"})
	require.NoError(t, err)
	require.NotNil(t, report.Performance)
	assert.Equal(t, 4, report.Performance.Summary.TotalReviews)
	assert.InDelta(t, 4.75, report.Performance.Summary.AverageRating, 0.001)
}

func TestComposeExplicitDatesOverridePeriod(t *testing.T) {
	repo := &fakeAggregators{}
	svc := newTestReportService(repo)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	report, err := svc.Compose(context.Background(), dto.ReportRequest{
		Type:     dto.ReportTypeBookings,
		Period:   "year",
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	assert.True(t, repo.statusCalled)
	require.NotNil(t, repo.seenFilter.DateFrom)
	require.NotNil(t, repo.seenFilter.DateTo)
	assert.Equal(t, from, *repo.seenFilter.DateFrom)
	assert.Equal(t, to, *repo.seenFilter.DateTo)
	assert.Equal(t, "2024-01-01T00:00:00Z", report.DateFrom)
}

func TestComposeRejectsInvertedDateOrder(t *testing.T) {
	repo := &fakeAggregators{}
	svc := newTestReportService(repo)

	from := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Compose(context.Background(), dto.ReportRequest{
		Type:     dto.ReportTypeBookings,
		Period:   "month",
		DateFrom: &from,
		DateTo:   &to,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.False(t, repo.statusCalled)
}

func TestComposeCachesReports(t *testing.T) {
	repo := &fakeAggregators{byStatus: []models.DimensionCount{{Dimension: "completed", Count: 1}}}
	svc := NewReportService(repo, newTestCacheService(&stubCacheRepo{}), nil, zap.NewNop(), ReportServiceConfig{})
	svc.now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }

	first, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeBookings, Period: "month"})
	require.NoError(t, err)

	repo.byStatus = nil
	second, err := svc.Compose(context.Background(), dto.ReportRequest{Type: dto.ReportTypeBookings, Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, first.Bookings.Summary.TotalBookings, second.Bookings.Summary.TotalBookings)
}

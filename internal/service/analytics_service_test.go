package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	bySubject    []models.DimensionCount
	byStatus     []models.DimensionCount
	revenue      []models.RevenueSummary
	overview     *models.PlatformOverview
	subjectCalls int
	overviewErr  error
}

func (m *mockAnalyticsRepo) BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	m.subjectCalls++
	return m.bySubject, nil
}

func (m *mockAnalyticsRepo) BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return m.byStatus, nil
}

func (m *mockAnalyticsRepo) BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return m.revenue, nil
}

func (m *mockAnalyticsRepo) RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return m.revenue, nil
}

func (m *mockAnalyticsRepo) RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	return m.revenue, nil
}

func (m *mockAnalyticsRepo) UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) ProfessorPerformanceTop(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) Overview(ctx context.Context) (*models.PlatformOverview, error) {
	if m.overviewErr != nil {
		return nil, m.overviewErr
	}
	return m.overview, nil
}

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.store = nil
	return nil
}

func newTestCacheService(repo CacheRepository) *CacheService {
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
}

func TestAnalyticsServiceCachesBookingsBySubject(t *testing.T) {
	repo := &mockAnalyticsRepo{bySubject: []models.DimensionCount{{Dimension: "Math", Count: 12}}}
	svc := NewAnalyticsService(repo, newTestCacheService(&stubCacheRepo{}), nil, zap.NewNop())

	first, cached, err := svc.BookingsBySubject(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, first, 1)

	second, cached, err := svc.BookingsBySubject(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.subjectCalls)
}

func TestAnalyticsServiceDistinctWindowsDistinctKeys(t *testing.T) {
	repo := &mockAnalyticsRepo{bySubject: []models.DimensionCount{{Dimension: "Math", Count: 3}}}
	svc := NewAnalyticsService(repo, newTestCacheService(&stubCacheRepo{}), nil, zap.NewNop())

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.BookingsBySubject(context.Background(), models.AnalyticsFilter{DateFrom: &from})
	require.NoError(t, err)

	_, cached, err := svc.BookingsBySubject(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.subjectCalls)
}

func TestAnalyticsServiceOverviewError(t *testing.T) {
	repo := &mockAnalyticsRepo{overviewErr: assert.AnError}
	svc := NewAnalyticsService(repo, nil, nil, zap.NewNop())

	_, cached, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.False(t, cached)
}

func TestAnalyticsCacheKeyIncludesLimit(t *testing.T) {
	base := analyticsCacheKey("top_professors", models.AnalyticsFilter{})
	limited := analyticsCacheKey("top_professors", models.AnalyticsFilter{Limit: 5})
	assert.NotEqual(t, base, limited)
}

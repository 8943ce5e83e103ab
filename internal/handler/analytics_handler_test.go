package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
)

type fakeAnalyticsRepo struct {
	lastFilter models.AnalyticsFilter
	calls      int
}

func (f *fakeAnalyticsRepo) record(filter models.AnalyticsFilter) {
	f.calls++
	f.lastFilter = filter
}

func (f *fakeAnalyticsRepo) BookingsBySubject(_ context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.record(filter)
	return []models.DimensionCount{{Dimension: "Math", Count: 7}}, nil
}

func (f *fakeAnalyticsRepo) BookingsByStatus(_ context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) BookingsByHour(_ context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) RevenueByProfessor(_ context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) RevenueBySubject(_ context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) RevenueByMethod(_ context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) UsersByRole(_ context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) ProfessorsByCity(_ context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) RatingDistribution(_ context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) ProfessorPerformanceTop(_ context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error) {
	f.record(filter)
	return nil, nil
}

func (f *fakeAnalyticsRepo) Overview(context.Context) (*models.PlatformOverview, error) {
	f.calls++
	return &models.PlatformOverview{TotalUsers: 12}, nil
}

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func newAnalyticsFixture() (*AnalyticsHandler, *fakeAnalyticsRepo) {
	repo := &fakeAnalyticsRepo{}
	svc := service.NewAnalyticsService(repo, nil, nil, zap.NewNop())
	return NewAnalyticsHandler(svc), repo
}

func TestAnalyticsBookingsRejectsUnknownGroupBy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/bookings?group_by=planet", nil)

	handler.Bookings(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.calls)
}

func TestAnalyticsBookingsDefaultsToSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/bookings", nil)

	handler.Bookings(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, repo.calls)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, string(envelope.Data), "Math")
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestAnalyticsBookingsRejectsMalformedDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/bookings?date_from=not-a-date", nil)

	handler.Bookings(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.calls)
}

func TestAnalyticsPeriodResolvesWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/revenue?period=month&date=2024-03-15", nil)

	handler.Revenue(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.lastFilter.DateFrom)
	require.NotNil(t, repo.lastFilter.DateTo)
	assert.Equal(t, "2024-03-01", repo.lastFilter.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", repo.lastFilter.DateTo.Format("2006-01-02"))
}

func TestAnalyticsRejectsMalformedAnchorDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/revenue?period=month&date=99-99-9999", nil)

	handler.Revenue(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.calls)
}

func TestAnalyticsExplicitDatesWinOverPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAnalyticsFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/users?period=year&date_from=2024-02-01&date_to=2024-02-29", nil)

	handler.Users(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.lastFilter.DateFrom)
	assert.Equal(t, "2024-02-01", repo.lastFilter.DateFrom.Format("2006-01-02"))
}

func TestAnalyticsNilServiceGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/overview", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

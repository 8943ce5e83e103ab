package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

func newAnalyticsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnalyticsRevenueByProfessorCompletedOnly(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"dimension", "bookings", "total_revenue", "avg_revenue"}).
		AddRow("Mounir Trabelsi", 4, 480.0, 120.0)
	mock.ExpectQuery(`WHERE b\.status = 'completed'.* GROUP BY u\.full_name ORDER BY total_revenue DESC LIMIT 10`).
		WillReturnRows(rows)

	result, err := repo.RevenueByProfessor(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 480.0, result[0].TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsBookingsBySubjectDateWindow(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"dimension", "count"}).AddRow("Math", 7)
	mock.ExpectQuery(`AND b\.created_at >= \$1 AND b\.created_at <= \$2 GROUP BY s\.name`).
		WithArgs(from, to).
		WillReturnRows(rows)

	result, err := repo.BookingsBySubject(context.Background(), models.AnalyticsFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Math", result[0].Dimension)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRatingDistributionApprovedOnly(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"rating", "count"}).
		AddRow(4, 2).
		AddRow(5, 9)
	mock.ExpectQuery(`FROM reviews r WHERE r\.status = 'approved' GROUP BY r\.rating ORDER BY r\.rating ASC`).
		WillReturnRows(rows)

	result, err := repo.RatingDistribution(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 5, result[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsTopLimitClamps(t *testing.T) {
	assert.Equal(t, 10, topLimit(models.AnalyticsFilter{}))
	assert.Equal(t, 10, topLimit(models.AnalyticsFilter{Limit: -1}))
	assert.Equal(t, 10, topLimit(models.AnalyticsFilter{Limit: 500}))
	assert.Equal(t, 25, topLimit(models.AnalyticsFilter{Limit: 25}))
}

func TestAnalyticsRevenueTotals(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"completed_bookings", "total_revenue"}).AddRow(3, 360.0)
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) AS completed_bookings,.*WHERE b\.status = 'completed'`).
		WillReturnRows(rows)

	totals, err := repo.RevenueTotals(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, totals.CompletedBookings)
	assert.Equal(t, 360.0, totals.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsOverview(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{
		"total_users", "total_professors", "total_parents", "total_bookings",
		"completed_bookings", "cancelled_bookings", "total_revenue",
		"total_sessions", "pending_reviews", "pending_certificates",
	}).AddRow(120, 40, 75, 300, 180, 25, 21600.0, 450, 6, 3)
	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users\) AS total_users`).
		WillReturnRows(rows)

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, overview.TotalUsers)
	assert.Equal(t, 180, overview.CompletedBookings)
	assert.Equal(t, 21600.0, overview.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsBookingTrend(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"date", "count", "revenue"}).
		AddRow("2024-03-01", 4, 260.0).
		AddRow("2024-03-02", 2, 0.0)
	mock.ExpectQuery(`TO_CHAR\(DATE_TRUNC\('day', b\.created_at\), 'YYYY-MM-DD'\) AS date`).
		WillReturnRows(rows)

	trend, err := repo.BookingTrend(context.Background(), models.AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-03-01", trend[0].Date)
	assert.Equal(t, 260.0, trend[0].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// AnalyticsRepository exposes read-only grouped aggregation queries for the
// reporting endpoints. It never mutates the underlying rows.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// appendDateRange adds inclusive date predicates for the given column using
// positional args. An unbounded filter adds nothing, which matches everything.
func appendDateRange(builder *strings.Builder, args *[]interface{}, column string, filter models.AnalyticsFilter) {
	if filter.DateFrom != nil {
		*args = append(*args, *filter.DateFrom)
		builder.WriteString(fmt.Sprintf(" AND %s >= $%d", column, len(*args)))
	}
	if filter.DateTo != nil {
		*args = append(*args, *filter.DateTo)
		builder.WriteString(fmt.Sprintf(" AND %s <= $%d", column, len(*args)))
	}
}

func topLimit(filter models.AnalyticsFilter) int {
	if filter.Limit <= 0 || filter.Limit > 100 {
		return 10
	}
	return filter.Limit
}

// BookingsBySubject groups bookings by subject name.
func (r *AnalyticsRepository) BookingsBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT s.name AS dimension, COUNT(*) AS count
        FROM bookings b
        JOIN subjects s ON s.id = b.subject_id
        WHERE 1=1`)
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY s.name ORDER BY count DESC LIMIT %d", topLimit(filter)))

	var rows []models.DimensionCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query bookings by subject: %w", err)
	}
	return rows, nil
}

// BookingsByStatus groups bookings by lifecycle status.
func (r *AnalyticsRepository) BookingsByStatus(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	var builder strings.Builder
	builder.WriteString("SELECT b.status AS dimension, COUNT(*) AS count FROM bookings b WHERE 1=1")
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(" GROUP BY b.status ORDER BY count DESC")

	var rows []models.DimensionCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query bookings by status: %w", err)
	}
	return rows, nil
}

// BookingsByHour groups bookings by the hour of day they were created.
func (r *AnalyticsRepository) BookingsByHour(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	var builder strings.Builder
	builder.WriteString("SELECT EXTRACT(HOUR FROM b.created_at)::TEXT AS dimension, COUNT(*) AS count FROM bookings b WHERE 1=1")
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY dimension ORDER BY count DESC LIMIT %d", topLimit(filter)))

	var rows []models.DimensionCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query bookings by hour: %w", err)
	}
	return rows, nil
}

// RevenueByProfessor sums completed booking revenue per professor.
func (r *AnalyticsRepository) RevenueByProfessor(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT u.full_name AS dimension, COUNT(*) AS bookings,
        COALESCE(SUM(b.total_price), 0) AS total_revenue,
        COALESCE(AVG(b.total_price), 0) AS avg_revenue
        FROM bookings b
        JOIN users u ON u.id = b.professor_id
        WHERE b.status = 'completed'`)
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY u.full_name ORDER BY total_revenue DESC LIMIT %d", topLimit(filter)))

	var rows []models.RevenueSummary
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query revenue by professor: %w", err)
	}
	return rows, nil
}

// RevenueBySubject sums completed booking revenue per subject.
func (r *AnalyticsRepository) RevenueBySubject(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT s.name AS dimension, COUNT(*) AS bookings,
        COALESCE(SUM(b.total_price), 0) AS total_revenue,
        COALESCE(AVG(b.total_price), 0) AS avg_revenue
        FROM bookings b
        JOIN subjects s ON s.id = b.subject_id
        WHERE b.status = 'completed'`)
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY s.name ORDER BY total_revenue DESC LIMIT %d", topLimit(filter)))

	var rows []models.RevenueSummary
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query revenue by subject: %w", err)
	}
	return rows, nil
}

// RevenueByMethod sums completed payment amounts per payment method.
func (r *AnalyticsRepository) RevenueByMethod(ctx context.Context, filter models.AnalyticsFilter) ([]models.RevenueSummary, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT p.method AS dimension, COUNT(*) AS bookings,
        COALESCE(SUM(p.amount), 0) AS total_revenue,
        COALESCE(AVG(p.amount), 0) AS avg_revenue
        FROM payments p
        WHERE p.status = 'completed'`)
	var args []interface{}
	appendDateRange(&builder, &args, "p.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY p.method ORDER BY total_revenue DESC LIMIT %d", topLimit(filter)))

	var rows []models.RevenueSummary
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query revenue by method: %w", err)
	}
	return rows, nil
}

// UsersByRole counts users per attached role.
func (r *AnalyticsRepository) UsersByRole(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ro.name AS dimension, COUNT(*) AS count
        FROM users u
        JOIN user_roles ur ON ur.user_id = u.id
        JOIN roles ro ON ro.id = ur.role_id
        WHERE 1=1`)
	var args []interface{}
	appendDateRange(&builder, &args, "u.created_at", filter)
	builder.WriteString(" GROUP BY ro.name ORDER BY count DESC")

	var rows []models.DimensionCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query users by role: %w", err)
	}
	return rows, nil
}

// ProfessorsByCity counts professors per city. The role predicate lives in
// the join itself so the leaderboard only ever counts professors.
func (r *AnalyticsRepository) ProfessorsByCity(ctx context.Context, filter models.AnalyticsFilter) ([]models.DimensionCount, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT c.name AS dimension, COUNT(*) AS count
        FROM users u
        JOIN cities c ON c.id = u.city_id
        JOIN user_roles ur ON ur.user_id = u.id
        JOIN roles ro ON ro.id = ur.role_id AND ro.name = 'PROFESSOR'
        WHERE 1=1`)
	var args []interface{}
	appendDateRange(&builder, &args, "u.created_at", filter)
	builder.WriteString(fmt.Sprintf(" GROUP BY c.name ORDER BY count DESC LIMIT %d", topLimit(filter)))

	var rows []models.DimensionCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query professors by city: %w", err)
	}
	return rows, nil
}

// RatingDistribution counts approved reviews per star rating.
func (r *AnalyticsRepository) RatingDistribution(ctx context.Context, filter models.AnalyticsFilter) ([]models.RatingBucket, error) {
	var builder strings.Builder
	builder.WriteString("SELECT r.rating AS rating, COUNT(*) AS count FROM reviews r WHERE r.status = 'approved'")
	var args []interface{}
	appendDateRange(&builder, &args, "r.created_at", filter)
	builder.WriteString(" GROUP BY r.rating ORDER BY r.rating ASC")

	var rows []models.RatingBucket
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query rating distribution: %w", err)
	}
	return rows, nil
}

// ProfessorPerformanceTop joins approved review averages with completed
// booking counts per professor, best rated first.
func (r *AnalyticsRepository) ProfessorPerformanceTop(ctx context.Context, filter models.AnalyticsFilter) ([]models.ProfessorPerformance, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT u.id AS professor_id, u.full_name AS professor_name,
        COALESCE(AVG(r.rating), 0) AS average_rating,
        COUNT(r.id) AS review_count,
        COALESCE(cb.completed, 0) AS completed_bookings
        FROM users u
        JOIN user_roles ur ON ur.user_id = u.id
        JOIN roles ro ON ro.id = ur.role_id AND ro.name = 'PROFESSOR'
        LEFT JOIN reviews r ON r.professor_id = u.id AND r.status = 'approved'`)
	var args []interface{}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		builder.WriteString(fmt.Sprintf(" AND r.created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		builder.WriteString(fmt.Sprintf(" AND r.created_at <= $%d", len(args)))
	}
	builder.WriteString(` LEFT JOIN (
            SELECT professor_id, COUNT(*) AS completed FROM bookings WHERE status = 'completed' GROUP BY professor_id
        ) cb ON cb.professor_id = u.id
        GROUP BY u.id, u.full_name, cb.completed`)
	builder.WriteString(fmt.Sprintf(" ORDER BY average_rating DESC, review_count DESC LIMIT %d", topLimit(filter)))

	var rows []models.ProfessorPerformance
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query professor performance: %w", err)
	}
	return rows, nil
}

// Overview returns headline platform counts. Revenue covers completed
// bookings only.
func (r *AnalyticsRepository) Overview(ctx context.Context) (*models.PlatformOverview, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users) AS total_users,
        (SELECT COUNT(DISTINCT ur.user_id) FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id WHERE ro.name = 'PROFESSOR') AS total_professors,
        (SELECT COUNT(DISTINCT ur.user_id) FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id WHERE ro.name = 'PARENT') AS total_parents,
        (SELECT COUNT(*) FROM bookings) AS total_bookings,
        (SELECT COUNT(*) FROM bookings WHERE status = 'completed') AS completed_bookings,
        (SELECT COUNT(*) FROM bookings WHERE status = 'cancelled') AS cancelled_bookings,
        (SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status = 'completed') AS total_revenue,
        (SELECT COUNT(*) FROM sessions) AS total_sessions,
        (SELECT COUNT(*) FROM reviews WHERE status = 'pending') AS pending_reviews,
        (SELECT COUNT(*) FROM certificates WHERE status = 'pending') AS pending_certificates`

	var overview models.PlatformOverview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("query platform overview: %w", err)
	}
	return &overview, nil
}

// RevenueTotals sums completed booking revenue inside the window.
func (r *AnalyticsRepository) RevenueTotals(ctx context.Context, filter models.AnalyticsFilter) (*models.RevenueTotals, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT COUNT(*) AS completed_bookings,
        COALESCE(SUM(b.total_price), 0) AS total_revenue
        FROM bookings b
        WHERE b.status = 'completed'`)
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)

	var totals models.RevenueTotals
	if err := r.db.GetContext(ctx, &totals, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query revenue totals: %w", err)
	}
	return &totals, nil
}

// CountUsersCreated counts user registrations inside the window.
func (r *AnalyticsRepository) CountUsersCreated(ctx context.Context, filter models.AnalyticsFilter) (int, error) {
	var builder strings.Builder
	builder.WriteString("SELECT COUNT(*) FROM users u WHERE 1=1")
	var args []interface{}
	appendDateRange(&builder, &args, "u.created_at", filter)

	var count int
	if err := r.db.GetContext(ctx, &count, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("count users created: %w", err)
	}
	return count, nil
}

// BookingTrend returns per-day booking counts with completed revenue.
func (r *AnalyticsRepository) BookingTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT TO_CHAR(DATE_TRUNC('day', b.created_at), 'YYYY-MM-DD') AS date,
        COUNT(*) AS count,
        COALESCE(SUM(CASE WHEN b.status = 'completed' THEN b.total_price ELSE 0 END), 0) AS revenue
        FROM bookings b
        WHERE 1=1`)
	var args []interface{}
	appendDateRange(&builder, &args, "b.created_at", filter)
	builder.WriteString(" GROUP BY date ORDER BY date ASC")

	var rows []models.TrendPoint
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query booking trend: %w", err)
	}
	return rows, nil
}

// UserTrend returns per-day registration counts.
func (r *AnalyticsRepository) UserTrend(ctx context.Context, filter models.AnalyticsFilter) ([]models.TrendPoint, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT TO_CHAR(DATE_TRUNC('day', u.created_at), 'YYYY-MM-DD') AS date,
        COUNT(*) AS count,
        0 AS revenue
        FROM users u
        WHERE 1=1`)
	var args []interface{}
	appendDateRange(&builder, &args, "u.created_at", filter)
	builder.WriteString(" GROUP BY date ORDER BY date ASC")

	var rows []models.TrendPoint
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query user trend: %w", err)
	}
	return rows, nil
}

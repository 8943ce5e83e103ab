package dto

import (
	"time"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// ReportType selects which aggregator set the composer runs.
type ReportType string

const (
	ReportTypeUsers       ReportType = "users"
	ReportTypeBookings    ReportType = "bookings"
	ReportTypeRevenue     ReportType = "revenue"
	ReportTypePerformance ReportType = "performance"
)

// ReportRequest carries the validated report parameters.
type ReportRequest struct {
	Type     ReportType
	Period   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Report is the composed report payload. Exactly one of the typed sections
// is populated, matching Type.
type Report struct {
	Type        ReportType         `json:"type"`
	Period      string             `json:"period"`
	DateFrom    string             `json:"date_from"`
	DateTo      string             `json:"date_to"`
	GeneratedAt time.Time          `json:"generated_at"`
	Users       *UsersReport       `json:"users,omitempty"`
	Bookings    *BookingsReport    `json:"bookings,omitempty"`
	Revenue     *RevenueReport     `json:"revenue,omitempty"`
	Performance *PerformanceReport `json:"performance,omitempty"`
}

// UsersReport covers registration and population metrics.
type UsersReport struct {
	Summary UsersSummary            `json:"summary"`
	ByRole  []models.DimensionCount `json:"breakdown_by_role"`
	ByCity  []models.DimensionCount `json:"breakdown_by_city"`
	Trend   []models.TrendPoint     `json:"trend"`
}

// UsersSummary aggregates headline user counts.
type UsersSummary struct {
	TotalUsers int `json:"total_users"`
	NewUsers   int `json:"new_users"`
	Professors int `json:"professors"`
	Parents    int `json:"parents"`
}

// BookingsReport covers booking volume and funnel metrics.
type BookingsReport struct {
	Summary   BookingsSummary         `json:"summary"`
	BySubject []models.DimensionCount `json:"breakdown_by_subject"`
	ByStatus  []models.DimensionCount `json:"breakdown_by_status"`
	ByHour    []models.DimensionCount `json:"breakdown_by_hour"`
	Trend     []models.TrendPoint     `json:"trend"`
}

// BookingsSummary aggregates booking counts and derived rates. All rates are
// percentages with a zero-denominator guard.
type BookingsSummary struct {
	TotalBookings        int     `json:"total_bookings"`
	Pending              int     `json:"pending"`
	Confirmed            int     `json:"confirmed"`
	Completed            int     `json:"completed"`
	Cancelled            int     `json:"cancelled"`
	CompletionRate       float64 `json:"completion_rate"`
	ConfirmationRate     float64 `json:"confirmation_rate"`
	CancellationRate     float64 `json:"cancellation_rate"`
	VisitorToBookingRate float64 `json:"visitor_to_booking_rate"`
}

// RevenueReport covers money metrics over completed bookings.
type RevenueReport struct {
	Summary     RevenueTotals           `json:"summary"`
	ByProfessor []models.RevenueSummary `json:"breakdown_by_professor"`
	BySubject   []models.RevenueSummary `json:"breakdown_by_subject"`
	ByMethod    []models.RevenueSummary `json:"breakdown_by_method"`
	Trend       []models.TrendPoint     `json:"trend"`
}

// RevenueTotals aggregates headline revenue figures.
type RevenueTotals struct {
	TotalRevenue        float64 `json:"total_revenue"`
	CompletedBookings   int     `json:"completed_bookings"`
	AverageBookingValue float64 `json:"average_booking_value"`
}

// PerformanceReport covers professor quality metrics.
type PerformanceReport struct {
	Summary            PerformanceSummary            `json:"summary"`
	RatingDistribution []models.RatingBucket         `json:"rating_distribution"`
	TopProfessors      []models.ProfessorPerformance `json:"top_professors"`
}

// PerformanceSummary aggregates review figures. AverageRating is 0 when no
// approved reviews fall in range.
type PerformanceSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

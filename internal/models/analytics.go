package models

import "time"

// AnalyticsFilter scopes aggregation queries to an optional date window.
// Both ends nil means no date restriction at all.
type AnalyticsFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// DimensionCount is a grouped count over a single dimension column.
type DimensionCount struct {
	Dimension string `db:"dimension" json:"dimension"`
	Count     int    `db:"count" json:"count"`
}

// RevenueSummary is a grouped revenue aggregate. Sums and averages cover
// completed bookings only.
type RevenueSummary struct {
	Dimension    string  `db:"dimension" json:"dimension"`
	Bookings     int     `db:"bookings" json:"bookings"`
	TotalRevenue float64 `db:"total_revenue" json:"total_revenue"`
	AvgRevenue   float64 `db:"avg_revenue" json:"avg_revenue"`
}

// RatingBucket counts approved reviews per star rating.
type RatingBucket struct {
	Rating int `db:"rating" json:"rating"`
	Count  int `db:"count" json:"count"`
}

// ProfessorPerformance joins approved review averages with completed booking
// counts per professor.
type ProfessorPerformance struct {
	ProfessorID       string  `db:"professor_id" json:"professor_id"`
	ProfessorName     string  `db:"professor_name" json:"professor_name"`
	AverageRating     float64 `db:"average_rating" json:"average_rating"`
	ReviewCount       int     `db:"review_count" json:"review_count"`
	CompletedBookings int     `db:"completed_bookings" json:"completed_bookings"`
}

// PlatformOverview captures headline counts across the marketplace.
type PlatformOverview struct {
	TotalUsers          int     `db:"total_users" json:"total_users"`
	TotalProfessors     int     `db:"total_professors" json:"total_professors"`
	TotalParents        int     `db:"total_parents" json:"total_parents"`
	TotalBookings       int     `db:"total_bookings" json:"total_bookings"`
	CompletedBookings   int     `db:"completed_bookings" json:"completed_bookings"`
	CancelledBookings   int     `db:"cancelled_bookings" json:"cancelled_bookings"`
	TotalRevenue        float64 `db:"total_revenue" json:"total_revenue"`
	TotalSessions       int     `db:"total_sessions" json:"total_sessions"`
	PendingReviews      int     `db:"pending_reviews" json:"pending_reviews"`
	PendingCertificates int     `db:"pending_certificates" json:"pending_certificates"`
}

// RevenueTotals is a ranged aggregate over completed bookings.
type RevenueTotals struct {
	CompletedBookings int     `db:"completed_bookings" json:"completed_bookings"`
	TotalRevenue      float64 `db:"total_revenue" json:"total_revenue"`
}

// TrendPoint is a per-day datapoint in a report trend series.
type TrendPoint struct {
	Date    string  `db:"date" json:"date"`
	Count   int     `db:"count" json:"count"`
	Revenue float64 `db:"revenue" json:"revenue"`
}

// AnalyticsSystemMetrics represents system level analytics captured from
// instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

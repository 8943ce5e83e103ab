package service

import "time"

// Period is a named date-bucket granularity used to scope aggregation.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// DateRange is an inclusive interval. Both ends nil means no restriction.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Bounded reports whether the range restricts anything.
func (r DateRange) Bounded() bool {
	return r.From != nil || r.To != nil
}

// ResolvePeriod maps a period token plus an anchor date onto the calendar
// boundary interval containing the anchor. Unrecognized tokens resolve to an
// unbounded range so callers match everything rather than failing.
func ResolvePeriod(period Period, anchor time.Time) DateRange {
	anchor = anchor.UTC()
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodDay:
		end := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
		return DateRange{From: &dayStart, To: &end}
	case PeriodWeek:
		weekday := int(dayStart.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := dayStart.AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
		return DateRange{From: &start, To: &end}
	case PeriodMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return DateRange{From: &start, To: &end}
	case PeriodYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
		return DateRange{From: &start, To: &end}
	default:
		return DateRange{}
	}
}

// DefaultReportRange resolves the rolling window a report covers when the
// caller supplies no explicit dates: day covers today, the rest look back
// from now.
func DefaultReportRange(period Period, now time.Time) DateRange {
	now = now.UTC()
	end := now

	var start time.Time
	switch period {
	case PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, 0, -30)
	case PeriodQuarter:
		start = now.AddDate(0, 0, -90)
	case PeriodYear:
		start = now.AddDate(0, 0, -365)
	default:
		start = now.AddDate(0, 0, -30)
	}
	return DateRange{From: &start, To: &end}
}

// Rate derives a percentage with a zero-denominator guard: it returns 0
// instead of dividing by zero.
func Rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// SafeAvg derives a mean with a zero-count guard.
func SafeAvg(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

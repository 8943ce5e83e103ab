package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriodMonth(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)
	window := ResolvePeriod(PeriodMonth, anchor)

	require.NotNil(t, window.From)
	require.NotNil(t, window.To)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), *window.From)
	assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC), *window.To)
}

func TestResolvePeriodWeekStartsMonday(t *testing.T) {
	// 2024-03-17 is a Sunday, so the containing week starts on the 11th.
	anchor := time.Date(2024, time.March, 17, 8, 0, 0, 0, time.UTC)
	window := ResolvePeriod(PeriodWeek, anchor)

	require.NotNil(t, window.From)
	require.NotNil(t, window.To)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), *window.From)
	assert.True(t, window.To.After(anchor))
}

func TestResolvePeriodContainsAnchor(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 17, 30, 0, 0, time.UTC)
	for _, period := range []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear} {
		window := ResolvePeriod(period, anchor)
		require.NotNil(t, window.From, string(period))
		require.NotNil(t, window.To, string(period))
		assert.False(t, window.From.After(anchor), string(period))
		assert.False(t, window.To.Before(anchor), string(period))
		assert.False(t, window.From.After(*window.To), string(period))
	}
}

func TestResolvePeriodUnknownIsUnbounded(t *testing.T) {
	window := ResolvePeriod(Period("fortnight"), time.Now())
	assert.Nil(t, window.From)
	assert.Nil(t, window.To)
	assert.False(t, window.Bounded())
}

func TestDefaultReportRangeLooksBack(t *testing.T) {
	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

	cases := map[Period]time.Time{
		PeriodDay:     time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC),
		PeriodWeek:    now.AddDate(0, 0, -7),
		PeriodMonth:   now.AddDate(0, 0, -30),
		PeriodQuarter: now.AddDate(0, 0, -90),
		PeriodYear:    now.AddDate(0, 0, -365),
	}
	for period, want := range cases {
		window := DefaultReportRange(period, now)
		require.NotNil(t, window.From, string(period))
		require.NotNil(t, window.To, string(period))
		assert.Equal(t, want, *window.From, string(period))
		assert.Equal(t, now, *window.To, string(period))
	}
}

func TestRateZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Rate(5, 0))
	assert.Equal(t, 50.0, Rate(1, 2))
}

func TestSafeAvgZeroCount(t *testing.T) {
	assert.Equal(t, 0.0, SafeAvg(100, 0))
	assert.Equal(t, 25.0, SafeAvg(100, 4))
}

package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parsePagination reads the common page/page_size/sort query parameters.
func parsePagination(c *gin.Context) (page, pageSize int, sortBy, sortOrder string) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize, c.Query("sort_by"), c.Query("sort_order")
}

// parseDateQuery parses an optional RFC3339 or date-only query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter")
	}
	return &parsed, nil
}

// parseAnalyticsFilter resolves the date window for an analytics request.
// Explicit date_from/date_to win; otherwise a period token plus optional
// anchor date selects the containing calendar interval. No parameters at all
// leaves the window unbounded.
func parseAnalyticsFilter(c *gin.Context) (models.AnalyticsFilter, error) {
	var filter models.AnalyticsFilter

	dateFrom, err := parseDateQuery(c, "date_from")
	if err != nil {
		return filter, err
	}
	dateTo, err := parseDateQuery(c, "date_to")
	if err != nil {
		return filter, err
	}
	filter.DateFrom = dateFrom
	filter.DateTo = dateTo

	if filter.DateFrom == nil && filter.DateTo == nil {
		if period := c.Query("period"); period != "" {
			anchor := time.Now().UTC()
			parsed, err := parseDateQuery(c, "date")
			if err != nil {
				return filter, err
			}
			if parsed != nil {
				anchor = *parsed
			}
			window := service.ResolvePeriod(service.Period(period), anchor)
			filter.DateFrom = window.From
			filter.DateTo = window.To
		}
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	return filter, nil
}

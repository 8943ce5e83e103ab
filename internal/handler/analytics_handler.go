package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// AnalyticsHandler exposes dashboard-ready marketplace aggregates.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) respond(c *gin.Context, start time.Time, cacheHit bool, data interface{}) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}

// Overview returns headline platform counts.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	overview, cacheHit, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, overview)
}

// Bookings returns booking counts grouped by the requested dimension.
func (h *AnalyticsHandler) Bookings(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	ctx := c.Request.Context()
	switch groupBy := c.DefaultQuery("group_by", "subject"); groupBy {
	case "subject":
		rows, cacheHit, err := h.analytics.BookingsBySubject(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	case "status":
		rows, cacheHit, err := h.analytics.BookingsByStatus(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	case "hour":
		rows, cacheHit, err := h.analytics.BookingsByHour(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "group_by must be subject, status or hour"))
	}
}

// Revenue returns completed revenue grouped by the requested dimension.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	ctx := c.Request.Context()
	switch groupBy := c.DefaultQuery("group_by", "professor"); groupBy {
	case "professor":
		rows, cacheHit, err := h.analytics.RevenueByProfessor(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	case "subject":
		rows, cacheHit, err := h.analytics.RevenueBySubject(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	case "method":
		rows, cacheHit, err := h.analytics.RevenueByMethod(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "group_by must be professor, subject or method"))
	}
}

// Users returns user counts grouped by the requested dimension.
func (h *AnalyticsHandler) Users(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	ctx := c.Request.Context()
	switch groupBy := c.DefaultQuery("group_by", "role"); groupBy {
	case "role":
		rows, cacheHit, err := h.analytics.UsersByRole(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	case "city":
		rows, cacheHit, err := h.analytics.ProfessorsByCity(ctx, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.respond(c, start, cacheHit, rows)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "group_by must be role or city"))
	}
}

// Ratings returns the approved review rating distribution.
func (h *AnalyticsHandler) Ratings(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	rows, cacheHit, err := h.analytics.RatingDistribution(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, rows)
}

// TopProfessors returns the professor performance leaderboard.
func (h *AnalyticsHandler) TopProfessors(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	rows, cacheHit, err := h.analytics.TopProfessors(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, rows)
}

// System returns instrumentation metrics snapshots.
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	h.respond(c, start, false, metrics)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// SessionHandler exposes tutoring session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List returns a paginated session listing.
func (h *SessionHandler) List(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.SessionFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.BookingID = c.Query("booking_id")
	filter.Status = c.Query("status")

	dateFrom, err := parseDateQuery(c, "date_from")
	if err != nil {
		response.Error(c, err)
		return
	}
	dateTo, err := parseDateQuery(c, "date_to")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.DateFrom = dateFrom
	filter.DateTo = dateTo

	sessions, pagination, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Get returns a single session by ID.
func (h *SessionHandler) Get(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create schedules a session under a confirmed booking.
func (h *SessionHandler) Create(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid session payload"))
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, session, nil)
}

// UpdateStatus moves a session through its lifecycle.
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status is required"))
		return
	}
	session, err := h.sessions.Transition(c.Request.Context(), c.Param("id"), models.SessionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// AddFeedback records post-session feedback on a completed session.
func (h *SessionHandler) AddFeedback(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.SessionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid feedback payload"))
		return
	}
	feedback, err := h.sessions.AddFeedback(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, feedback, nil)
}

// Feedback lists feedback left on a session.
func (h *SessionHandler) Feedback(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	feedback, err := h.sessions.Feedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}

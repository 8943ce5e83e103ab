package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// BookingHandler exposes booking lifecycle endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs the booking handler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// List returns a paginated booking listing.
func (h *BookingHandler) List(c *gin.Context) {
	if h.bookings == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.BookingFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.ProfessorID = c.Query("professor_id")
	filter.ParentID = c.Query("parent_id")
	filter.SubjectID = c.Query("subject_id")
	filter.Status = c.Query("status")
	filter.PaymentStatus = c.Query("payment_status")

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

	bookings, pagination, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Get returns a single booking by ID.
func (h *BookingHandler) Get(c *gin.Context) {
	if h.bookings == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Create registers a new pending booking.
func (h *BookingHandler) Create(c *gin.Context) {
	if h.bookings == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid booking payload"))
		return
	}
	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, booking, nil)
}

// Update modifies booking details while the booking is still open.
func (h *BookingHandler) Update(c *gin.Context) {
	if h.bookings == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid booking payload"))
		return
	}
	booking, err := h.bookings.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// UpdateStatus moves a booking through its lifecycle.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	if h.bookings == nil {
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
	booking, err := h.bookings.Transition(c.Request.Context(), c.Param("id"), models.BookingStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

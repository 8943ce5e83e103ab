package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// PaymentHandler exposes payment lifecycle endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs the payment handler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List returns a paginated payment listing.
func (h *PaymentHandler) List(c *gin.Context) {
	if h.payments == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.PaymentFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.BookingID = c.Query("booking_id")
	filter.UserID = c.Query("user_id")
	filter.Status = c.Query("status")
	filter.Method = c.Query("method")

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

	payments, pagination, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Get returns a single payment by ID.
func (h *PaymentHandler) Get(c *gin.Context) {
	if h.payments == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Create registers a new pending payment against a booking.
func (h *PaymentHandler) Create(c *gin.Context) {
	if h.payments == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payment payload"))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, payment, nil)
}

// UpdateStatus moves a payment through its lifecycle and mirrors the
// completed or refunded outcome onto the owning booking.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	if h.payments == nil {
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
	payment, err := h.payments.Transition(c.Request.Context(), c.Param("id"), models.PaymentStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// ReviewHandler exposes review submission and moderation endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler constructs the review handler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List returns a paginated review listing.
func (h *ReviewHandler) List(c *gin.Context) {
	if h.reviews == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.ReviewFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.ProfessorID = c.Query("professor_id")
	filter.ParentID = c.Query("parent_id")
	filter.Status = c.Query("status")
	if raw := c.Query("min_rating"); raw != "" {
		if minRating, err := strconv.Atoi(raw); err == nil {
			filter.MinRating = minRating
		}
	}

	reviews, pagination, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, pagination)
}

// Get returns a single review by ID.
func (h *ReviewHandler) Get(c *gin.Context) {
	if h.reviews == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	review, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Create submits a pending review against a completed booking.
func (h *ReviewHandler) Create(c *gin.Context) {
	if h.reviews == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, review, nil)
}

// Moderate approves or rejects a pending review.
func (h *ReviewHandler) Moderate(c *gin.Context) {
	if h.reviews == nil {
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
	review, err := h.reviews.Moderate(c.Request.Context(), c.Param("id"), models.ModerationStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Delete removes a review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	if h.reviews == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "review deleted"}, nil)
}

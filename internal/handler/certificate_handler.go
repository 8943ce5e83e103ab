package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// CertificateHandler exposes professor credential endpoints.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs the certificate handler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// List returns a paginated certificate listing.
func (h *CertificateHandler) List(c *gin.Context) {
	if h.certificates == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.CertificateFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.UserID = c.Query("user_id")
	filter.Status = c.Query("status")

	certificates, pagination, err := h.certificates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certificates, pagination)
}

// Get returns a single certificate by ID.
func (h *CertificateHandler) Get(c *gin.Context) {
	if h.certificates == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	certificate, err := h.certificates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certificate, nil)
}

// Create registers a new pending certificate.
func (h *CertificateHandler) Create(c *gin.Context) {
	if h.certificates == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid certificate payload"))
		return
	}
	certificate, err := h.certificates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, certificate, nil)
}

// Verify marks a pending certificate verified or rejected, recording the
// reviewing admin.
func (h *CertificateHandler) Verify(c *gin.Context) {
	if h.certificates == nil {
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
	verifiedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		verifiedBy = claims.UserID
	}
	certificate, err := h.certificates.Verify(c.Request.Context(), c.Param("id"), models.VerificationStatus(req.Status), verifiedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certificate, nil)
}

// Delete removes a certificate.
func (h *CertificateHandler) Delete(c *gin.Context) {
	if h.certificates == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.certificates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "certificate deleted"}, nil)
}

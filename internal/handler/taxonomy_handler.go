package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// TaxonomyHandler exposes cycle, level and subject endpoints.
type TaxonomyHandler struct {
	taxonomy *service.TaxonomyService
}

// NewTaxonomyHandler constructs the taxonomy handler.
func NewTaxonomyHandler(taxonomy *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

func (h *TaxonomyHandler) filter(c *gin.Context) models.TaxonomyFilter {
	var filter models.TaxonomyFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.CycleID = c.Query("cycle_id")
	filter.Search = c.Query("search")
	return filter
}

// ListCycles returns a paginated cycle listing.
func (h *TaxonomyHandler) ListCycles(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	cycles, pagination, err := h.taxonomy.ListCycles(c.Request.Context(), h.filter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycles, pagination)
}

// GetCycle returns a single cycle by ID.
func (h *TaxonomyHandler) GetCycle(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	cycle, err := h.taxonomy.GetCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycle, nil)
}

// CreateCycle adds a new educational cycle.
func (h *TaxonomyHandler) CreateCycle(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid cycle payload"))
		return
	}
	cycle, err := h.taxonomy.CreateCycle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, cycle, nil)
}

// UpdateCycle modifies an existing cycle.
func (h *TaxonomyHandler) UpdateCycle(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid cycle payload"))
		return
	}
	cycle, err := h.taxonomy.UpdateCycle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycle, nil)
}

// DeleteCycle removes a cycle.
func (h *TaxonomyHandler) DeleteCycle(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.taxonomy.DeleteCycle(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "cycle deleted"}, nil)
}

// ListLevels returns a paginated level listing.
func (h *TaxonomyHandler) ListLevels(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	levels, pagination, err := h.taxonomy.ListLevels(c.Request.Context(), h.filter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, pagination)
}

// GetLevel returns a single level by ID.
func (h *TaxonomyHandler) GetLevel(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	level, err := h.taxonomy.GetLevel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// CreateLevel adds a new level inside a cycle.
func (h *TaxonomyHandler) CreateLevel(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid level payload"))
		return
	}
	level, err := h.taxonomy.CreateLevel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, level, nil)
}

// UpdateLevel modifies an existing level.
func (h *TaxonomyHandler) UpdateLevel(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid level payload"))
		return
	}
	level, err := h.taxonomy.UpdateLevel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// DeleteLevel removes a level.
func (h *TaxonomyHandler) DeleteLevel(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.taxonomy.DeleteLevel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "level deleted"}, nil)
}

// ListSubjects returns a paginated subject listing.
func (h *TaxonomyHandler) ListSubjects(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	subjects, pagination, err := h.taxonomy.ListSubjects(c.Request.Context(), h.filter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// GetSubject returns a single subject by ID.
func (h *TaxonomyHandler) GetSubject(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	subject, err := h.taxonomy.GetSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// CreateSubject adds a new subject.
func (h *TaxonomyHandler) CreateSubject(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject payload"))
		return
	}
	subject, err := h.taxonomy.CreateSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, subject, nil)
}

// UpdateSubject modifies an existing subject.
func (h *TaxonomyHandler) UpdateSubject(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject payload"))
		return
	}
	subject, err := h.taxonomy.UpdateSubject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// DeleteSubject removes a subject.
func (h *TaxonomyHandler) DeleteSubject(c *gin.Context) {
	if h.taxonomy == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.taxonomy.DeleteSubject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "subject deleted"}, nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// RoleHandler exposes role administration endpoints.
type RoleHandler struct {
	roles *service.RoleService
}

// NewRoleHandler constructs the role handler.
func NewRoleHandler(roles *service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List returns a paginated role listing.
func (h *RoleHandler) List(c *gin.Context) {
	if h.roles == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.RoleFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.Search = c.Query("search")

	roles, pagination, err := h.roles.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, pagination)
}

// Get returns a single role by ID.
func (h *RoleHandler) Get(c *gin.Context) {
	if h.roles == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	role, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// Create adds a new role.
func (h *RoleHandler) Create(c *gin.Context) {
	if h.roles == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid role payload"))
		return
	}
	role, err := h.roles.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, role, nil)
}

// Update modifies an existing role.
func (h *RoleHandler) Update(c *gin.Context) {
	if h.roles == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid role payload"))
		return
	}
	role, err := h.roles.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// Delete removes a role that has no remaining assignments.
func (h *RoleHandler) Delete(c *gin.Context) {
	if h.roles == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.roles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "role deleted"}, nil)
}

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

// UserHandler exposes user administration endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs the user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns a paginated user listing.
func (h *UserHandler) List(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var filter models.UserFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.Role = c.Query("role")
	filter.CityID = c.Query("city_id")
	filter.Search = c.Query("search")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get returns a single user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Create registers a new user account.
func (h *UserHandler) Create(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user payload"))
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, user, nil)
}

// Update modifies an existing user account.
func (h *UserHandler) Update(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user payload"))
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Deactivate marks a user inactive instead of removing the row.
func (h *UserHandler) Deactivate(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.users.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "user deactivated"}, nil)
}

// AttachRole grants a role to a user.
func (h *UserHandler) AttachRole(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.users.AttachRole(c.Request.Context(), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "role attached"}, nil)
}

// DetachRole revokes a role from a user.
func (h *UserHandler) DetachRole(c *gin.Context) {
	if h.users == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.users.DetachRole(c.Request.Context(), c.Param("id"), c.Param("roleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "role detached"}, nil)
}

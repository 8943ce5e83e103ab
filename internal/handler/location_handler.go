package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// LocationHandler exposes city and neighborhood endpoints.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler constructs the location handler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) filter(c *gin.Context) models.LocationFilter {
	var filter models.LocationFilter
	filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder = parsePagination(c)
	filter.CityID = c.Query("city_id")
	filter.Search = c.Query("search")
	return filter
}

// ListCities returns a paginated city listing.
func (h *LocationHandler) ListCities(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	cities, pagination, err := h.locations.ListCities(c.Request.Context(), h.filter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cities, pagination)
}

// GetCity returns a single city by ID.
func (h *LocationHandler) GetCity(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	city, err := h.locations.GetCity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, city, nil)
}

// CreateCity adds a new city.
func (h *LocationHandler) CreateCity(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid city payload"))
		return
	}
	city, err := h.locations.CreateCity(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, city, nil)
}

// UpdateCity modifies an existing city.
func (h *LocationHandler) UpdateCity(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.CityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid city payload"))
		return
	}
	city, err := h.locations.UpdateCity(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, city, nil)
}

// DeleteCity removes a city.
func (h *LocationHandler) DeleteCity(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.locations.DeleteCity(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "city deleted"}, nil)
}

// ListNeighborhoods returns a paginated neighborhood listing.
func (h *LocationHandler) ListNeighborhoods(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	neighborhoods, pagination, err := h.locations.ListNeighborhoods(c.Request.Context(), h.filter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, neighborhoods, pagination)
}

// GetNeighborhood returns a single neighborhood by ID.
func (h *LocationHandler) GetNeighborhood(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	neighborhood, err := h.locations.GetNeighborhood(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, neighborhood, nil)
}

// CreateNeighborhood adds a new neighborhood to a city.
func (h *LocationHandler) CreateNeighborhood(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NeighborhoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid neighborhood payload"))
		return
	}
	neighborhood, err := h.locations.CreateNeighborhood(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, neighborhood, nil)
}

// UpdateNeighborhood modifies an existing neighborhood.
func (h *LocationHandler) UpdateNeighborhood(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req service.NeighborhoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid neighborhood payload"))
		return
	}
	neighborhood, err := h.locations.UpdateNeighborhood(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, neighborhood, nil)
}

// DeleteNeighborhood removes a neighborhood.
func (h *LocationHandler) DeleteNeighborhood(c *gin.Context) {
	if h.locations == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.locations.DeleteNeighborhood(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "neighborhood deleted"}, nil)
}

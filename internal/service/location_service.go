package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type locationRepository interface {
	ListCities(ctx context.Context, filter models.LocationFilter) ([]models.City, int, error)
	FindCityByID(ctx context.Context, id string) (*models.City, error)
	ExistsCityByName(ctx context.Context, name string, excludeID string) (bool, error)
	CreateCity(ctx context.Context, city *models.City) error
	UpdateCity(ctx context.Context, city *models.City) error
	DeleteCity(ctx context.Context, id string) error
	ListNeighborhoods(ctx context.Context, filter models.LocationFilter) ([]models.Neighborhood, int, error)
	FindNeighborhoodByID(ctx context.Context, id string) (*models.Neighborhood, error)
	CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error
	UpdateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error
	DeleteNeighborhood(ctx context.Context, id string) error
}

// CityRequest holds payload for creating or updating cities.
type CityRequest struct {
	Name   string `json:"name" validate:"required"`
	Region string `json:"region"`
}

// NeighborhoodRequest holds payload for creating or updating neighborhoods.
type NeighborhoodRequest struct {
	CityID string `json:"city_id" validate:"required,uuid4"`
	Name   string `json:"name" validate:"required"`
}

// LocationService handles city and neighborhood use-cases.
type LocationService struct {
	repo      locationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLocationService constructs the location service.
func NewLocationService(repo locationRepository, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{repo: repo, validator: validate, logger: logger}
}

// ListCities returns cities and pagination metadata.
func (s *LocationService) ListCities(ctx context.Context, filter models.LocationFilter) ([]models.City, *models.Pagination, error) {
	cities, total, err := s.repo.ListCities(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cities")
	}
	return cities, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetCity returns a single city.
func (s *LocationService) GetCity(ctx context.Context, id string) (*models.City, error) {
	city, err := s.repo.FindCityByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "city not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load city")
	}
	return city, nil
}

// CreateCity registers a new city.
func (s *LocationService) CreateCity(ctx context.Context, req CityRequest) (*models.City, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid city payload")
	}
	exists, err := s.repo.ExistsCityByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate city name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "city name already used")
	}
	city := &models.City{Name: req.Name, Region: req.Region}
	if err := s.repo.CreateCity(ctx, city); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create city")
	}
	return city, nil
}

// UpdateCity modifies an existing city.
func (s *LocationService) UpdateCity(ctx context.Context, id string, req CityRequest) (*models.City, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid city payload")
	}
	city, err := s.GetCity(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsCityByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate city name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "city name already used")
	}
	city.Name = req.Name
	city.Region = req.Region
	if err := s.repo.UpdateCity(ctx, city); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update city")
	}
	return city, nil
}

// DeleteCity removes a city.
func (s *LocationService) DeleteCity(ctx context.Context, id string) error {
	if _, err := s.GetCity(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCity(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete city")
	}
	return nil
}

// ListNeighborhoods returns neighborhoods and pagination metadata.
func (s *LocationService) ListNeighborhoods(ctx context.Context, filter models.LocationFilter) ([]models.Neighborhood, *models.Pagination, error) {
	neighborhoods, total, err := s.repo.ListNeighborhoods(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list neighborhoods")
	}
	return neighborhoods, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetNeighborhood returns a single neighborhood.
func (s *LocationService) GetNeighborhood(ctx context.Context, id string) (*models.Neighborhood, error) {
	neighborhood, err := s.repo.FindNeighborhoodByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "neighborhood not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load neighborhood")
	}
	return neighborhood, nil
}

// CreateNeighborhood registers a new neighborhood under a city.
func (s *LocationService) CreateNeighborhood(ctx context.Context, req NeighborhoodRequest) (*models.Neighborhood, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid neighborhood payload")
	}
	if _, err := s.GetCity(ctx, req.CityID); err != nil {
		return nil, err
	}
	neighborhood := &models.Neighborhood{CityID: req.CityID, Name: req.Name}
	if err := s.repo.CreateNeighborhood(ctx, neighborhood); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create neighborhood")
	}
	return neighborhood, nil
}

// UpdateNeighborhood modifies an existing neighborhood.
func (s *LocationService) UpdateNeighborhood(ctx context.Context, id string, req NeighborhoodRequest) (*models.Neighborhood, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid neighborhood payload")
	}
	neighborhood, err := s.GetNeighborhood(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCity(ctx, req.CityID); err != nil {
		return nil, err
	}
	neighborhood.CityID = req.CityID
	neighborhood.Name = req.Name
	if err := s.repo.UpdateNeighborhood(ctx, neighborhood); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update neighborhood")
	}
	return neighborhood, nil
}

// DeleteNeighborhood removes a neighborhood.
func (s *LocationService) DeleteNeighborhood(ctx context.Context, id string) error {
	if _, err := s.GetNeighborhood(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteNeighborhood(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete neighborhood")
	}
	return nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// LocationRepository manages persistence for cities and neighborhoods.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListCities returns cities matching the provided filters.
func (r *LocationRepository) ListCities(ctx context.Context, filter models.LocationFilter) ([]models.City, int, error) {
	base := "FROM cities"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, region, created_at, updated_at %s ORDER BY name %s LIMIT %d OFFSET %d", base, order, size, offset)

	var cities []models.City
	if err := r.db.SelectContext(ctx, &cities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list cities: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count cities: %w", err)
	}
	return cities, total, nil
}

// FindCityByID fetches a city by ID.
func (r *LocationRepository) FindCityByID(ctx context.Context, id string) (*models.City, error) {
	const query = "SELECT id, name, region, created_at, updated_at FROM cities WHERE id = $1"
	var city models.City
	if err := r.db.GetContext(ctx, &city, query, id); err != nil {
		return nil, err
	}
	return &city, nil
}

// ExistsCityByName checks for a duplicate city name, optionally excluding an ID.
func (r *LocationRepository) ExistsCityByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM cities WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check city name: %w", err)
	}
	return true, nil
}

// CreateCity inserts a new city record.
func (r *LocationRepository) CreateCity(ctx context.Context, city *models.City) error {
	if city.ID == "" {
		city.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if city.CreatedAt.IsZero() {
		city.CreatedAt = now
	}
	city.UpdatedAt = now
	const query = `INSERT INTO cities (id, name, region, created_at, updated_at)
        VALUES (:id, :name, :region, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, city); err != nil {
		return fmt.Errorf("create city: %w", err)
	}
	return nil
}

// UpdateCity modifies an existing city.
func (r *LocationRepository) UpdateCity(ctx context.Context, city *models.City) error {
	city.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cities SET name = :name, region = :region, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, city); err != nil {
		return fmt.Errorf("update city: %w", err)
	}
	return nil
}

// DeleteCity removes a city. Neighborhoods cascade at the schema level.
func (r *LocationRepository) DeleteCity(ctx context.Context, id string) error {
	const query = "DELETE FROM cities WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	return nil
}

// ListNeighborhoods returns neighborhoods matching the provided filters.
func (r *LocationRepository) ListNeighborhoods(ctx context.Context, filter models.LocationFilter) ([]models.Neighborhood, int, error) {
	base := "FROM neighborhoods"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.CityID != "" {
		conditions = append(conditions, fmt.Sprintf("city_id = $%d", len(args)+1))
		args = append(args, filter.CityID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, city_id, name, created_at, updated_at %s ORDER BY name %s LIMIT %d OFFSET %d", base, order, size, offset)

	var neighborhoods []models.Neighborhood
	if err := r.db.SelectContext(ctx, &neighborhoods, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list neighborhoods: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count neighborhoods: %w", err)
	}
	return neighborhoods, total, nil
}

// FindNeighborhoodByID fetches a neighborhood by ID.
func (r *LocationRepository) FindNeighborhoodByID(ctx context.Context, id string) (*models.Neighborhood, error) {
	const query = "SELECT id, city_id, name, created_at, updated_at FROM neighborhoods WHERE id = $1"
	var neighborhood models.Neighborhood
	if err := r.db.GetContext(ctx, &neighborhood, query, id); err != nil {
		return nil, err
	}
	return &neighborhood, nil
}

// CreateNeighborhood inserts a new neighborhood record.
func (r *LocationRepository) CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error {
	if neighborhood.ID == "" {
		neighborhood.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if neighborhood.CreatedAt.IsZero() {
		neighborhood.CreatedAt = now
	}
	neighborhood.UpdatedAt = now
	const query = `INSERT INTO neighborhoods (id, city_id, name, created_at, updated_at)
        VALUES (:id, :city_id, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, neighborhood); err != nil {
		return fmt.Errorf("create neighborhood: %w", err)
	}
	return nil
}

// UpdateNeighborhood modifies an existing neighborhood.
func (r *LocationRepository) UpdateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error {
	neighborhood.UpdatedAt = time.Now().UTC()
	const query = `UPDATE neighborhoods SET city_id = :city_id, name = :name, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, neighborhood); err != nil {
		return fmt.Errorf("update neighborhood: %w", err)
	}
	return nil
}

// DeleteNeighborhood removes a neighborhood.
func (r *LocationRepository) DeleteNeighborhood(ctx context.Context, id string) error {
	const query = "DELETE FROM neighborhoods WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete neighborhood: %w", err)
	}
	return nil
}

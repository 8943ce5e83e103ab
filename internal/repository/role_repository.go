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

// RoleRepository manages persistence for assignable roles.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns roles matching the provided filters.
func (r *RoleRepository) List(ctx context.Context, filter models.RoleFilter) ([]models.Role, int, error) {
	base := "FROM roles"
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

	query := fmt.Sprintf("SELECT id, name, description, created_at, updated_at %s ORDER BY name %s LIMIT %d OFFSET %d", base, order, size, offset)

	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}
	return roles, total, nil
}

// FindByID fetches a role by ID.
func (r *RoleRepository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	const query = "SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1"
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName fetches a role by its unique name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	const query = "SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1"
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, strings.ToUpper(name)); err != nil {
		return nil, err
	}
	return &role, nil
}

// ExistsByName checks for a duplicate role name, optionally excluding an ID.
func (r *RoleRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM roles WHERE name = $1"
	args := []interface{}{strings.ToUpper(name)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check role name: %w", err)
	}
	return true, nil
}

// Create inserts a new role record.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	role.UpdatedAt = now
	const query = `INSERT INTO roles (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// Update modifies an existing role.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now().UTC()
	const query = `UPDATE roles SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Delete removes a role. Fails if user_roles still references it.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM roles WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// CountAssignments reports how many users currently hold the role.
func (r *RoleRepository) CountAssignments(ctx context.Context, id string) (int, error) {
	const query = "SELECT COUNT(*) FROM user_roles WHERE role_id = $1"
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count role assignments: %w", err)
	}
	return count, nil
}

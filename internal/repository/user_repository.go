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

// UserRepository manages persistence for user accounts and their roles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns users matching the provided filters with their roles loaded.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	base := "FROM users u"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Role != "" {
		base += " JOIN user_roles ur ON ur.user_id = u.id JOIN roles ro ON ro.id = ur.role_id"
		conditions = append(conditions, fmt.Sprintf("ro.name = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Role))
	}
	if filter.CityID != "" {
		conditions = append(conditions, fmt.Sprintf("u.city_id = $%d", len(args)+1))
		args = append(args, filter.CityID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("u.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"full_name":  "u.full_name",
		"email":      "u.email",
		"created_at": "u.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "u.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf(`SELECT DISTINCT u.id, u.email, u.password_hash, u.full_name, u.phone, u.city_id, u.hourly_rate, u.bio, u.active, u.last_login, u.created_at, u.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT u.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	if err := r.attachRoles(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) attachRoles(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	query, args, err := sqlx.In(`SELECT ur.user_id AS user_id, ro.id AS id, ro.name AS name, ro.description AS description, ro.created_at AS created_at, ro.updated_at AS updated_at
        FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id WHERE ur.user_id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build role query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []struct {
		UserID string `db:"user_id"`
		models.Role
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("load user roles: %w", err)
	}

	byUser := make(map[string][]models.Role, len(users))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row.Role)
	}
	for i := range users {
		users[i].Roles = byUser[users[i].ID]
	}
	return nil
}

// FindByID fetches a user with roles by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, phone, city_id, hourly_rate, bio, active, last_login, created_at, updated_at
        FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	users := []models.User{user}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// FindByEmail fetches a user with roles by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, phone, city_id, hourly_rate, bio, active, last_login, created_at, updated_at
        FROM users WHERE LOWER(email) = LOWER($1)`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	users := []models.User{user}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// ExistsByEmail checks if a user with the email exists, optionally excluding
// an ID during updates.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, email, password_hash, full_name, phone, city_id, hourly_rate, bio, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :full_name, :phone, :city_id, :hourly_rate, :bio, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update modifies an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET email = :email, full_name = :full_name, phone = :phone, city_id = :city_id, hourly_rate = :hourly_rate, bio = :bio, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful login timestamp.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// Deactivate marks a user as inactive instead of deleting the row.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE users SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// AttachRole links a role to a user. Duplicate attachments are ignored.
func (r *UserRepository) AttachRole(ctx context.Context, userID, roleID string) error {
	const query = `INSERT INTO user_roles (user_id, role_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (user_id, role_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID, time.Now().UTC()); err != nil {
		return fmt.Errorf("attach role: %w", err)
	}
	return nil
}

// DetachRole unlinks a role from a user.
func (r *UserRepository) DetachRole(ctx context.Context, userID, roleID string) error {
	const query = `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("detach role: %w", err)
	}
	return nil
}

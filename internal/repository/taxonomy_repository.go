package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// TaxonomyRepository manages persistence for cycles, levels and subjects.
type TaxonomyRepository struct {
	db *sqlx.DB
}

// NewTaxonomyRepository constructs a TaxonomyRepository.
func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func taxonomyPage(filter models.TaxonomyFilter) (int, int) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}

// ListCycles returns cycles matching the provided filters.
func (r *TaxonomyRepository) ListCycles(ctx context.Context, filter models.TaxonomyFilter) ([]models.Cycle, int, error) {
	base := "FROM cycles WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	size, offset := taxonomyPage(filter)

	query := fmt.Sprintf("SELECT id, name, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var cycles []models.Cycle
	if err := r.db.SelectContext(ctx, &cycles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list cycles: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count cycles: %w", err)
	}
	return cycles, total, nil
}

// FindCycleByID fetches a cycle by ID.
func (r *TaxonomyRepository) FindCycleByID(ctx context.Context, id string) (*models.Cycle, error) {
	const query = "SELECT id, name, created_at, updated_at FROM cycles WHERE id = $1"
	var cycle models.Cycle
	if err := r.db.GetContext(ctx, &cycle, query, id); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// CreateCycle inserts a new cycle record.
func (r *TaxonomyRepository) CreateCycle(ctx context.Context, cycle *models.Cycle) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cycle.CreatedAt.IsZero() {
		cycle.CreatedAt = now
	}
	cycle.UpdatedAt = now
	const query = "INSERT INTO cycles (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)"
	if _, err := r.db.NamedExecContext(ctx, query, cycle); err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	return nil
}

// UpdateCycle modifies an existing cycle.
func (r *TaxonomyRepository) UpdateCycle(ctx context.Context, cycle *models.Cycle) error {
	cycle.UpdatedAt = time.Now().UTC()
	const query = "UPDATE cycles SET name = :name, updated_at = :updated_at WHERE id = :id"
	if _, err := r.db.NamedExecContext(ctx, query, cycle); err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	return nil
}

// DeleteCycle removes a cycle.
func (r *TaxonomyRepository) DeleteCycle(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cycles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	return nil
}

// ListLevels returns levels matching the provided filters.
func (r *TaxonomyRepository) ListLevels(ctx context.Context, filter models.TaxonomyFilter) ([]models.Level, int, error) {
	base := "FROM levels WHERE 1=1"
	args := []interface{}{}
	if filter.CycleID != "" {
		base += fmt.Sprintf(" AND cycle_id = $%d", len(args)+1)
		args = append(args, filter.CycleID)
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	size, offset := taxonomyPage(filter)

	query := fmt.Sprintf("SELECT id, cycle_id, name, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var levels []models.Level
	if err := r.db.SelectContext(ctx, &levels, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list levels: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count levels: %w", err)
	}
	return levels, total, nil
}

// FindLevelByID fetches a level by ID.
func (r *TaxonomyRepository) FindLevelByID(ctx context.Context, id string) (*models.Level, error) {
	const query = "SELECT id, cycle_id, name, created_at, updated_at FROM levels WHERE id = $1"
	var level models.Level
	if err := r.db.GetContext(ctx, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// CreateLevel inserts a new level record.
func (r *TaxonomyRepository) CreateLevel(ctx context.Context, level *models.Level) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if level.CreatedAt.IsZero() {
		level.CreatedAt = now
	}
	level.UpdatedAt = now
	const query = "INSERT INTO levels (id, cycle_id, name, created_at, updated_at) VALUES (:id, :cycle_id, :name, :created_at, :updated_at)"
	if _, err := r.db.NamedExecContext(ctx, query, level); err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	return nil
}

// UpdateLevel modifies an existing level.
func (r *TaxonomyRepository) UpdateLevel(ctx context.Context, level *models.Level) error {
	level.UpdatedAt = time.Now().UTC()
	const query = "UPDATE levels SET cycle_id = :cycle_id, name = :name, updated_at = :updated_at WHERE id = :id"
	if _, err := r.db.NamedExecContext(ctx, query, level); err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	return nil
}

// DeleteLevel removes a level.
func (r *TaxonomyRepository) DeleteLevel(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM levels WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete level: %w", err)
	}
	return nil
}

// ListSubjects returns subjects matching the provided filters.
func (r *TaxonomyRepository) ListSubjects(ctx context.Context, filter models.TaxonomyFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	size, offset := taxonomyPage(filter)

	query := fmt.Sprintf("SELECT id, name, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindSubjectByID fetches a subject by ID.
func (r *TaxonomyRepository) FindSubjectByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = "SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1"
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// CreateSubject inserts a new subject record.
func (r *TaxonomyRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = "INSERT INTO subjects (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)"
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// UpdateSubject modifies an existing subject.
func (r *TaxonomyRepository) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = "UPDATE subjects SET name = :name, updated_at = :updated_at WHERE id = :id"
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// DeleteSubject removes a subject.
func (r *TaxonomyRepository) DeleteSubject(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

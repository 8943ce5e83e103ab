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

// ReviewRepository manages persistence for professor reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews matching the provided filters.
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error) {
	base := "FROM reviews rv"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.ProfessorID != "" {
		conditions = append(conditions, fmt.Sprintf("rv.professor_id = $%d", len(args)+1))
		args = append(args, filter.ProfessorID)
	}
	if filter.ParentID != "" {
		conditions = append(conditions, fmt.Sprintf("rv.parent_id = $%d", len(args)+1))
		args = append(args, filter.ParentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("rv.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("rv.rating >= $%d", len(args)+1))
		args = append(args, filter.MinRating)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at": "rv.created_at",
		"rating":     "rv.rating",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "rv.created_at"
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

	query := fmt.Sprintf(`SELECT rv.id, rv.professor_id, rv.parent_id, rv.booking_id, rv.rating, rv.teaching_quality, rv.punctuality, rv.communication, rv.patience, rv.comment, rv.status, rv.created_at, rv.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	return reviews, total, nil
}

// FindByID fetches a review by ID.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	const query = `SELECT id, professor_id, parent_id, booking_id, rating, teaching_quality, punctuality, communication, patience, comment, status, created_at, updated_at
        FROM reviews WHERE id = $1`
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForBooking checks whether a parent already reviewed a booking.
func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID, parentID string) (bool, error) {
	const query = "SELECT 1 FROM reviews WHERE booking_id = $1 AND parent_id = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, bookingID, parentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check booking review: %w", err)
	}
	return true, nil
}

// Create inserts a new review record.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	const query = `INSERT INTO reviews (id, professor_id, parent_id, booking_id, rating, teaching_quality, punctuality, communication, patience, comment, status, created_at, updated_at)
        VALUES (:id, :professor_id, :parent_id, :booking_id, :rating, :teaching_quality, :punctuality, :communication, :patience, :comment, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// UpdateStatus moves a review through the moderation workflow.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.ModerationStatus) error {
	const query = `UPDATE reviews SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

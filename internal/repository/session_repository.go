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

// SessionRepository manages persistence for tutoring sessions and their
// feedback.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions matching the provided filters.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	base := "FROM sessions s"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.BookingID != "" {
		conditions = append(conditions, fmt.Sprintf("s.booking_id = $%d", len(args)+1))
		args = append(args, filter.BookingID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("s.starts_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.starts_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"starts_at":  "s.starts_at",
		"created_at": "s.created_at",
		"status":     "s.status",
	}
	if sortBy == "" {
		sortBy = "starts_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.starts_at"
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

	query := fmt.Sprintf(`SELECT s.id, s.booking_id, s.status, s.starts_at, s.ends_at, s.notes, s.created_at, s.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// FindByID fetches a session by ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT id, booking_id, status, starts_at, ends_at, notes, created_at, updated_at FROM sessions WHERE id = $1`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO sessions (id, booking_id, status, starts_at, ends_at, notes, created_at, updated_at)
        VALUES (:id, :booking_id, :status, :starts_at, :ends_at, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update modifies an existing session.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sessions SET status = :status, starts_at = :starts_at, ends_at = :ends_at, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// UpdateStatus transitions the session lifecycle status.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	const query = `UPDATE sessions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// CreateFeedback records parent feedback for a session.
func (r *SessionRepository) CreateFeedback(ctx context.Context, feedback *models.SessionFeedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO session_feedback (id, session_id, rating, comment, created_at)
        VALUES (:id, :session_id, :rating, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create session feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback rows for a session, newest first.
func (r *SessionRepository) ListFeedback(ctx context.Context, sessionID string) ([]models.SessionFeedback, error) {
	const query = `SELECT id, session_id, rating, comment, created_at FROM session_feedback WHERE session_id = $1 ORDER BY created_at DESC`
	var feedback []models.SessionFeedback
	if err := r.db.SelectContext(ctx, &feedback, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session feedback: %w", err)
	}
	return feedback, nil
}

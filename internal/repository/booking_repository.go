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

// BookingRepository manages persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// List returns bookings matching the provided filters.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	base := "FROM bookings b"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.ProfessorID != "" {
		conditions = append(conditions, fmt.Sprintf("b.professor_id = $%d", len(args)+1))
		args = append(args, filter.ProfessorID)
	}
	if filter.ParentID != "" {
		conditions = append(conditions, fmt.Sprintf("b.parent_id = $%d", len(args)+1))
		args = append(args, filter.ParentID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("b.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("b.payment_status = $%d", len(args)+1))
		args = append(args, filter.PaymentStatus)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at":   "b.created_at",
		"scheduled_at": "b.scheduled_at",
		"total_price":  "b.total_price",
		"status":       "b.status",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "b.created_at"
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

	query := fmt.Sprintf(`SELECT b.id, b.professor_id, b.parent_id, b.child_name, b.subject_id, b.level_id, b.status, b.payment_status, b.total_price, b.scheduled_at, b.created_at, b.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	return bookings, total, nil
}

// FindByID fetches a booking by ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	const query = `SELECT id, professor_id, parent_id, child_name, subject_id, level_id, status, payment_status, total_price, scheduled_at, created_at, updated_at
        FROM bookings WHERE id = $1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a new booking record.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	const query = `INSERT INTO bookings (id, professor_id, parent_id, child_name, subject_id, level_id, status, payment_status, total_price, scheduled_at, created_at, updated_at)
        VALUES (:id, :professor_id, :parent_id, :child_name, :subject_id, :level_id, :status, :payment_status, :total_price, :scheduled_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// Update modifies an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	const query = `UPDATE bookings SET child_name = :child_name, subject_id = :subject_id, level_id = :level_id, status = :status, payment_status = :payment_status, total_price = :total_price, scheduled_at = :scheduled_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// UpdateStatus transitions the booking lifecycle status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// UpdatePaymentStatus mirrors the payment state onto the booking row.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.BookingPaymentStatus) error {
	const query = `UPDATE bookings SET payment_status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update booking payment status: %w", err)
	}
	return nil
}

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

// PaymentRepository manages persistence for payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments matching the provided filters.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	base := "FROM payments p"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.BookingID != "" {
		conditions = append(conditions, fmt.Sprintf("p.booking_id = $%d", len(args)+1))
		args = append(args, filter.BookingID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Method != "" {
		conditions = append(conditions, fmt.Sprintf("p.method = $%d", len(args)+1))
		args = append(args, filter.Method)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at": "p.created_at",
		"amount":     "p.amount",
		"status":     "p.status",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "p.created_at"
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

	query := fmt.Sprintf(`SELECT p.id, p.booking_id, p.user_id, p.amount, p.method, p.status, p.paid_at, p.created_at, p.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, booking_id, user_id, amount, method, status, paid_at, created_at, updated_at FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	const query = `INSERT INTO payments (id, booking_id, user_id, amount, method, status, paid_at, created_at, updated_at)
        VALUES (:id, :booking_id, :user_id, :amount, :method, :status, :paid_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// UpdateStatus transitions the payment lifecycle status. Completing a payment
// also stamps paid_at.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	now := time.Now().UTC()
	if status == models.PaymentCompleted {
		const query = `UPDATE payments SET status = $2, paid_at = $3, updated_at = $3 WHERE id = $1`
		if _, err := r.db.ExecContext(ctx, query, id, status, now); err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		return nil
	}
	const query = `UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, now); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

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

// CertificateRepository manages persistence for professor certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// List returns certificates matching the provided filters.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	base := "FROM certificates c"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("c.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at": "c.created_at",
		"title":      "c.title",
		"status":     "c.status",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.created_at"
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

	query := fmt.Sprintf(`SELECT c.id, c.user_id, c.title, c.issuer, c.file_path, c.status, c.expires_at, c.verified_at, c.verified_by, c.created_at, c.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var certificates []models.Certificate
	if err := r.db.SelectContext(ctx, &certificates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}
	return certificates, total, nil
}

// FindByID fetches a certificate by ID.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	const query = `SELECT id, user_id, title, issuer, file_path, status, expires_at, verified_at, verified_by, created_at, updated_at
        FROM certificates WHERE id = $1`
	var certificate models.Certificate
	if err := r.db.GetContext(ctx, &certificate, query, id); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// Create inserts a new certificate record.
func (r *CertificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	if certificate.ID == "" {
		certificate.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if certificate.CreatedAt.IsZero() {
		certificate.CreatedAt = now
	}
	certificate.UpdatedAt = now
	const query = `INSERT INTO certificates (id, user_id, title, issuer, file_path, status, expires_at, created_at, updated_at)
        VALUES (:id, :user_id, :title, :issuer, :file_path, :status, :expires_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, certificate); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// SetVerification records the verification decision and the admin who made it.
func (r *CertificateRepository) SetVerification(ctx context.Context, id string, status models.VerificationStatus, verifiedBy string) error {
	now := time.Now().UTC()
	const query = `UPDATE certificates SET status = $2, verified_at = $3, verified_by = $4, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, now, verifiedBy); err != nil {
		return fmt.Errorf("set certificate verification: %w", err)
	}
	return nil
}

// Delete removes a certificate.
func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM certificates WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}

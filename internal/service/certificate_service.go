package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type certificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error)
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	Create(ctx context.Context, certificate *models.Certificate) error
	SetVerification(ctx context.Context, id string, status models.VerificationStatus, verifiedBy string) error
	Delete(ctx context.Context, id string) error
}

// CreateCertificateRequest holds payload for submitting certificates.
type CreateCertificateRequest struct {
	UserID    string     `json:"user_id" validate:"required,uuid4"`
	Title     string     `json:"title" validate:"required"`
	Issuer    string     `json:"issuer"`
	FilePath  string     `json:"file_path"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CertificateService handles professor credential verification.
type CertificateService struct {
	repo      certificateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCertificateService constructs the certificate service.
func NewCertificateService(repo certificateRepository, validate *validator.Validate, logger *zap.Logger) *CertificateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, validator: validate, logger: logger}
}

// List returns certificates and pagination metadata.
func (s *CertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, *models.Pagination, error) {
	certificates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return certificates, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single certificate.
func (s *CertificateService) Get(ctx context.Context, id string) (*models.Certificate, error) {
	certificate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	return certificate, nil
}

// Create submits a certificate for verification.
func (s *CertificateService) Create(ctx context.Context, req CreateCertificateRequest) (*models.Certificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate payload")
	}
	certificate := &models.Certificate{
		UserID:    req.UserID,
		Title:     req.Title,
		Issuer:    req.Issuer,
		FilePath:  req.FilePath,
		Status:    models.CertificatePending,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repo.Create(ctx, certificate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create certificate")
	}
	return certificate, nil
}

// Verify records the verification decision for a pending certificate.
func (s *CertificateService) Verify(ctx context.Context, id string, target models.VerificationStatus, verifiedBy string) (*models.Certificate, error) {
	if target != models.CertificateVerified && target != models.CertificateRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown verification decision %q", target))
	}

	certificate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if certificate.Status != models.CertificatePending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("certificate already %s", certificate.Status))
	}

	if err := s.repo.SetVerification(ctx, id, target, verifiedBy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set verification")
	}
	now := time.Now().UTC()
	certificate.Status = target
	certificate.VerifiedAt = &now
	certificate.VerifiedBy = &verifiedBy
	return certificate, nil
}

// Delete removes a certificate.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete certificate")
	}
	return nil
}

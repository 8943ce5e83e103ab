package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type mockCertificateRepo struct {
	certificate *models.Certificate
	verifiedBy  string
}

func (m *mockCertificateRepo) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	if m.certificate == nil {
		return nil, 0, nil
	}
	return []models.Certificate{*m.certificate}, 1, nil
}

func (m *mockCertificateRepo) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	if m.certificate == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.certificate
	return &copied, nil
}

func (m *mockCertificateRepo) Create(ctx context.Context, certificate *models.Certificate) error {
	certificate.ID = "c1"
	m.certificate = certificate
	return nil
}

func (m *mockCertificateRepo) SetVerification(ctx context.Context, id string, status models.VerificationStatus, verifiedBy string) error {
	m.certificate.Status = status
	m.verifiedBy = verifiedBy
	return nil
}

func (m *mockCertificateRepo) Delete(ctx context.Context, id string) error {
	m.certificate = nil
	return nil
}

func TestCertificateCreateStartsPending(t *testing.T) {
	repo := &mockCertificateRepo{}
	svc := NewCertificateService(repo, nil, zap.NewNop())

	certificate, err := svc.Create(context.Background(), CreateCertificateRequest{
		UserID: "7f8d9e4a-1b2c-4d3e-8f9a-0b1c2d3e4f5a",
		Title:  "Mathematics Teaching Diploma",
		Issuer: "University of Tunis",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CertificatePending, certificate.Status)
	assert.Nil(t, certificate.VerifiedAt)
}

func TestCertificateVerifyIsOneShot(t *testing.T) {
	repo := &mockCertificateRepo{certificate: &models.Certificate{ID: "c1", Status: models.CertificatePending}}
	svc := NewCertificateService(repo, nil, zap.NewNop())

	certificate, err := svc.Verify(context.Background(), "c1", models.CertificateVerified, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateVerified, certificate.Status)
	require.NotNil(t, certificate.VerifiedAt)
	require.NotNil(t, certificate.VerifiedBy)
	assert.Equal(t, "admin-1", *certificate.VerifiedBy)
	assert.Equal(t, "admin-1", repo.verifiedBy)

	_, err = svc.Verify(context.Background(), "c1", models.CertificateRejected, "admin-2")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestCertificateVerifyUnknownDecision(t *testing.T) {
	repo := &mockCertificateRepo{certificate: &models.Certificate{ID: "c1", Status: models.CertificatePending}}
	svc := NewCertificateService(repo, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "c1", models.VerificationStatus("expired"), "admin-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

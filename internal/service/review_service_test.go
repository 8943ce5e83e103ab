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

type mockReviewRepo struct {
	review   *models.Review
	existing bool
}

func (m *mockReviewRepo) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error) {
	if m.review == nil {
		return nil, 0, nil
	}
	return []models.Review{*m.review}, 1, nil
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id string) (*models.Review, error) {
	if m.review == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.review
	return &copied, nil
}

func (m *mockReviewRepo) ExistsForBooking(ctx context.Context, bookingID, parentID string) (bool, error) {
	return m.existing, nil
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = "r1"
	m.review = review
	return nil
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, id string, status models.ModerationStatus) error {
	m.review.Status = status
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	m.review = nil
	return nil
}

type mockBookingFinder struct {
	booking *models.Booking
}

func (m *mockBookingFinder) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.booking == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.booking
	return &copied, nil
}

func validReviewRequest() CreateReviewRequest {
	return CreateReviewRequest{
		BookingID:       "7f8d9e4a-1b2c-4d3e-8f9a-0b1c2d3e4f5a",
		Rating:          5,
		TeachingQuality: 5,
		Punctuality:     4,
		Communication:   5,
		Patience:        4,
		Comment:         "great tutor",
	}
}

func TestReviewCreateRequiresCompletedBooking(t *testing.T) {
	finder := &mockBookingFinder{booking: &models.Booking{ID: "b1", Status: models.BookingConfirmed}}
	svc := NewReviewService(&mockReviewRepo{}, finder, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validReviewRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestReviewCreateDerivesPartiesFromBooking(t *testing.T) {
	finder := &mockBookingFinder{booking: &models.Booking{
		ID:          "b1",
		ProfessorID: "prof-1",
		ParentID:    "parent-1",
		Status:      models.BookingCompleted,
	}}
	svc := NewReviewService(&mockReviewRepo{}, finder, nil, nil, zap.NewNop())

	review, err := svc.Create(context.Background(), validReviewRequest())
	require.NoError(t, err)
	assert.Equal(t, "prof-1", review.ProfessorID)
	assert.Equal(t, "parent-1", review.ParentID)
	assert.Equal(t, models.ReviewPending, review.Status)
}

func TestReviewCreateRejectsDuplicate(t *testing.T) {
	finder := &mockBookingFinder{booking: &models.Booking{ID: "b1", Status: models.BookingCompleted}}
	svc := NewReviewService(&mockReviewRepo{existing: true}, finder, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validReviewRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestReviewModerationIsOneShot(t *testing.T) {
	repo := &mockReviewRepo{review: &models.Review{ID: "r1", Status: models.ReviewPending}}
	svc := NewReviewService(repo, &mockBookingFinder{}, nil, nil, zap.NewNop())

	review, err := svc.Moderate(context.Background(), "r1", models.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, review.Status)

	_, err = svc.Moderate(context.Background(), "r1", models.ReviewRejected)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestReviewModerateUnknownDecision(t *testing.T) {
	repo := &mockReviewRepo{review: &models.Review{ID: "r1", Status: models.ReviewPending}}
	svc := NewReviewService(repo, &mockBookingFinder{}, nil, nil, zap.NewNop())

	_, err := svc.Moderate(context.Background(), "r1", models.ModerationStatus("escalated"))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

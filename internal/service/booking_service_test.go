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

type mockBookingRepo struct {
	booking       *models.Booking
	findErr       error
	updatedStatus models.BookingStatus
	statusCalls   int
}

func (m *mockBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	if m.booking == nil {
		return nil, 0, nil
	}
	return []models.Booking{*m.booking}, 1, nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.booking == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.booking
	return &copied, nil
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = "b1"
	m.booking = booking
	return nil
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	m.booking = booking
	return nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	m.statusCalls++
	m.updatedStatus = status
	m.booking.Status = status
	return nil
}

func (m *mockBookingRepo) UpdatePaymentStatus(ctx context.Context, id string, status models.BookingPaymentStatus) error {
	m.booking.PaymentStatus = status
	return nil
}

func newBookingService(repo *mockBookingRepo) *BookingService {
	return NewBookingService(repo, nil, nil, zap.NewNop())
}

func TestBookingTransitionGraph(t *testing.T) {
	cases := []struct {
		from    models.BookingStatus
		to      models.BookingStatus
		allowed bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPending, models.BookingCancelled, true},
		{models.BookingPending, models.BookingCompleted, false},
		{models.BookingConfirmed, models.BookingCompleted, true},
		{models.BookingConfirmed, models.BookingCancelled, true},
		{models.BookingConfirmed, models.BookingPending, false},
		{models.BookingCompleted, models.BookingCancelled, false},
		{models.BookingCancelled, models.BookingConfirmed, false},
	}

	for _, tc := range cases {
		repo := &mockBookingRepo{booking: &models.Booking{ID: "b1", Status: tc.from}}
		svc := newBookingService(repo)

		booking, err := svc.Transition(context.Background(), "b1", tc.to)
		if tc.allowed {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, booking.Status)
		} else {
			require.Error(t, err, "%s -> %s", tc.from, tc.to)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
			assert.Equal(t, 0, repo.statusCalls)
		}
	}
}

func TestBookingTransitionUnknownStatus(t *testing.T) {
	repo := &mockBookingRepo{booking: &models.Booking{ID: "b1", Status: models.BookingPending}}
	svc := newBookingService(repo)

	_, err := svc.Transition(context.Background(), "b1", models.BookingStatus("archived"))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestBookingTransitionNotFound(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{})

	_, err := svc.Transition(context.Background(), "missing", models.BookingConfirmed)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBookingCreateStartsPending(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newBookingService(repo)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{
		ProfessorID: "7f8d9e4a-1b2c-4d3e-8f9a-0b1c2d3e4f5a",
		ParentID:    "8a9b0c1d-2e3f-4a5b-9c8d-7e6f5a4b3c2d",
		ChildName:   "Sami",
		SubjectID:   "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
		LevelID:     "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e",
		TotalPrice:  120,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.BookingPaymentPending, booking.PaymentStatus)
}

func TestBookingUpdateFrozenWhenTerminal(t *testing.T) {
	repo := &mockBookingRepo{booking: &models.Booking{ID: "b1", Status: models.BookingCompleted}}
	svc := newBookingService(repo)

	_, err := svc.Update(context.Background(), "b1", UpdateBookingRequest{
		ChildName:  "Sami",
		SubjectID:  "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
		LevelID:    "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e",
		TotalPrice: 100,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

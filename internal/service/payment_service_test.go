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

type mockPaymentRepo struct {
	payment *models.Payment
}

func (m *mockPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	if m.payment == nil {
		return nil, 0, nil
	}
	return []models.Payment{*m.payment}, 1, nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if m.payment == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.payment
	return &copied, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = "p1"
	m.payment = payment
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	m.payment.Status = status
	return nil
}

type mockBookingMirror struct {
	booking  *models.Booking
	mirrored models.BookingPaymentStatus
	calls    int
}

func (m *mockBookingMirror) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.booking == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.booking
	return &copied, nil
}

func (m *mockBookingMirror) UpdatePaymentStatus(ctx context.Context, id string, status models.BookingPaymentStatus) error {
	m.calls++
	m.mirrored = status
	return nil
}

func newPaymentService(repo *mockPaymentRepo, mirror *mockBookingMirror) *PaymentService {
	return NewPaymentService(repo, mirror, nil, nil, zap.NewNop())
}

func TestPaymentCreateRequiresBooking(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockBookingMirror{})

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		BookingID: "7f8d9e4a-1b2c-4d3e-8f9a-0b1c2d3e4f5a",
		UserID:    "8a9b0c1d-2e3f-4a5b-9c8d-7e6f5a4b3c2d",
		Amount:    80,
		Method:    "card",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPaymentCompletedMirrorsPaidOntoBooking(t *testing.T) {
	repo := &mockPaymentRepo{payment: &models.Payment{ID: "p1", BookingID: "b1", Status: models.PaymentPending}}
	mirror := &mockBookingMirror{booking: &models.Booking{ID: "b1"}}
	svc := newPaymentService(repo, mirror)

	payment, err := svc.Transition(context.Background(), "p1", models.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, 1, mirror.calls)
	assert.Equal(t, models.BookingPaymentPaid, mirror.mirrored)
}

func TestPaymentRefundMirrorsRefundedOntoBooking(t *testing.T) {
	repo := &mockPaymentRepo{payment: &models.Payment{ID: "p1", BookingID: "b1", Status: models.PaymentCompleted}}
	mirror := &mockBookingMirror{booking: &models.Booking{ID: "b1"}}
	svc := newPaymentService(repo, mirror)

	payment, err := svc.Transition(context.Background(), "p1", models.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, payment.Status)
	assert.Equal(t, models.BookingPaymentRefunded, mirror.mirrored)
}

func TestPaymentFailedDoesNotTouchBooking(t *testing.T) {
	repo := &mockPaymentRepo{payment: &models.Payment{ID: "p1", BookingID: "b1", Status: models.PaymentPending}}
	mirror := &mockBookingMirror{booking: &models.Booking{ID: "b1"}}
	svc := newPaymentService(repo, mirror)

	_, err := svc.Transition(context.Background(), "p1", models.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, 0, mirror.calls)
}

func TestPaymentTransitionTerminalStates(t *testing.T) {
	for _, terminal := range []models.PaymentStatus{models.PaymentFailed, models.PaymentRefunded} {
		repo := &mockPaymentRepo{payment: &models.Payment{ID: "p1", BookingID: "b1", Status: terminal}}
		svc := newPaymentService(repo, &mockBookingMirror{booking: &models.Booking{ID: "b1"}})

		_, err := svc.Transition(context.Background(), "p1", models.PaymentCompleted)
		require.Error(t, err, string(terminal))
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	}
}

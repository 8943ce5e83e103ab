package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type mockSessionRepo struct {
	session  *models.Session
	feedback []models.SessionFeedback
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	if m.session == nil {
		return nil, 0, nil
	}
	return []models.Session{*m.session}, 1, nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if m.session == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.session
	return &copied, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = "s1"
	m.session = session
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.Session) error {
	m.session = session
	return nil
}

func (m *mockSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	m.session.Status = status
	return nil
}

func (m *mockSessionRepo) CreateFeedback(ctx context.Context, feedback *models.SessionFeedback) error {
	feedback.ID = "f1"
	m.feedback = append(m.feedback, *feedback)
	return nil
}

func (m *mockSessionRepo) ListFeedback(ctx context.Context, sessionID string) ([]models.SessionFeedback, error) {
	return m.feedback, nil
}

func newSessionService(repo *mockSessionRepo, booking *models.Booking) *SessionService {
	return NewSessionService(repo, &mockBookingFinder{booking: booking}, nil, zap.NewNop())
}

func validSessionRequest() CreateSessionRequest {
	return CreateSessionRequest{
		BookingID: "7f8d9e4a-1b2c-4d3e-8f9a-0b1c2d3e4f5a",
		StartsAt:  time.Date(2024, time.April, 1, 16, 0, 0, 0, time.UTC),
	}
}

func TestSessionCreateRequiresConfirmedBooking(t *testing.T) {
	svc := newSessionService(&mockSessionRepo{}, &models.Booking{ID: "b1", Status: models.BookingPending})

	_, err := svc.Create(context.Background(), validSessionRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestSessionCreateStartsScheduled(t *testing.T) {
	svc := newSessionService(&mockSessionRepo{}, &models.Booking{ID: "b1", Status: models.BookingConfirmed})

	session, err := svc.Create(context.Background(), validSessionRequest())
	require.NoError(t, err)
	assert.Equal(t, models.SessionScheduled, session.Status)
}

func TestSessionCreateRejectsInvertedWindow(t *testing.T) {
	svc := newSessionService(&mockSessionRepo{}, &models.Booking{ID: "b1", Status: models.BookingConfirmed})

	req := validSessionRequest()
	endsAt := req.StartsAt.Add(-time.Hour)
	req.EndsAt = &endsAt

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSessionTransitionGraph(t *testing.T) {
	cases := []struct {
		from    models.SessionStatus
		to      models.SessionStatus
		allowed bool
	}{
		{models.SessionScheduled, models.SessionInProgress, true},
		{models.SessionScheduled, models.SessionCancelled, true},
		{models.SessionScheduled, models.SessionCompleted, false},
		{models.SessionInProgress, models.SessionCompleted, true},
		{models.SessionInProgress, models.SessionCancelled, true},
		{models.SessionCompleted, models.SessionInProgress, false},
		{models.SessionCancelled, models.SessionScheduled, false},
	}

	for _, tc := range cases {
		repo := &mockSessionRepo{session: &models.Session{ID: "s1", Status: tc.from}}
		svc := newSessionService(repo, nil)

		_, err := svc.Transition(context.Background(), "s1", tc.to)
		if tc.allowed {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			require.Error(t, err, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestSessionFeedbackRequiresCompletedSession(t *testing.T) {
	repo := &mockSessionRepo{session: &models.Session{ID: "s1", Status: models.SessionInProgress}}
	svc := newSessionService(repo, nil)

	_, err := svc.AddFeedback(context.Background(), "s1", SessionFeedbackRequest{Rating: 5})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)

	repo.session.Status = models.SessionCompleted
	feedback, err := svc.AddFeedback(context.Background(), "s1", SessionFeedbackRequest{Rating: 5, Comment: "very helpful"})
	require.NoError(t, err)
	assert.Equal(t, "s1", feedback.SessionID)

	listed, err := svc.Feedback(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

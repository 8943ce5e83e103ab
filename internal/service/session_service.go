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

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	CreateFeedback(ctx context.Context, feedback *models.SessionFeedback) error
	ListFeedback(ctx context.Context, sessionID string) ([]models.SessionFeedback, error)
}

type sessionBookingFinder interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
}

// sessionTransitions is the allowed session lifecycle graph.
var sessionTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionScheduled:  {models.SessionInProgress, models.SessionCancelled},
	models.SessionInProgress: {models.SessionCompleted, models.SessionCancelled},
}

// CreateSessionRequest holds payload for scheduling sessions.
type CreateSessionRequest struct {
	BookingID string     `json:"booking_id" validate:"required,uuid4"`
	StartsAt  time.Time  `json:"starts_at" validate:"required"`
	EndsAt    *time.Time `json:"ends_at"`
	Notes     string     `json:"notes"`
}

// SessionFeedbackRequest holds payload for post-session feedback.
type SessionFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SessionService handles tutoring session use-cases.
type SessionService struct {
	repo      sessionRepository
	bookings  sessionBookingFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(repo sessionRepository, bookings sessionBookingFinder, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, bookings: bookings, validator: validate, logger: logger}
}

// List returns sessions and pagination metadata.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single session.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Create schedules a new session under a confirmed booking.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "sessions require a confirmed booking")
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session must end after it starts")
	}

	session := &models.Session{
		BookingID: req.BookingID,
		Status:    models.SessionScheduled,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Transition moves a session to the requested lifecycle status.
func (s *SessionService) Transition(ctx context.Context, id string, target models.SessionStatus) (*models.Session, error) {
	switch target {
	case models.SessionScheduled, models.SessionInProgress, models.SessionCompleted, models.SessionCancelled:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session status %q", target))
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(sessionTransitions[session.Status], target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move session from %s to %s", session.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	session.Status = target
	return session, nil
}

// AddFeedback records parent feedback for a completed session.
func (s *SessionService) AddFeedback(ctx context.Context, sessionID string, req SessionFeedbackRequest) (*models.SessionFeedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionCompleted {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "feedback requires a completed session")
	}

	feedback := &models.SessionFeedback{
		SessionID: sessionID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return feedback, nil
}

// Feedback lists feedback entries for a session.
func (s *SessionService) Feedback(ctx context.Context, sessionID string) ([]models.SessionFeedback, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	feedback, err := s.repo.ListFeedback(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return feedback, nil
}

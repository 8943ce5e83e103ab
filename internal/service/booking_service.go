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

type bookingRepository interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.BookingPaymentStatus) error
}

// bookingTransitions is the allowed booking lifecycle graph. Completed and
// cancelled are terminal.
var bookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// CreateBookingRequest holds payload for creating bookings.
type CreateBookingRequest struct {
	ProfessorID string     `json:"professor_id" validate:"required,uuid4"`
	ParentID    string     `json:"parent_id" validate:"required,uuid4"`
	ChildName   string     `json:"child_name" validate:"required"`
	SubjectID   string     `json:"subject_id" validate:"required,uuid4"`
	LevelID     string     `json:"level_id" validate:"required,uuid4"`
	TotalPrice  float64    `json:"total_price" validate:"gte=0"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateBookingRequest holds payload for updating booking details.
type UpdateBookingRequest struct {
	ChildName   string     `json:"child_name" validate:"required"`
	SubjectID   string     `json:"subject_id" validate:"required,uuid4"`
	LevelID     string     `json:"level_id" validate:"required,uuid4"`
	TotalPrice  float64    `json:"total_price" validate:"gte=0"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// BookingService handles booking lifecycle use-cases.
type BookingService struct {
	repo      bookingRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs the booking service.
func NewBookingService(repo bookingRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns bookings and pagination metadata.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return bookings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single booking.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// Create registers a new booking in pending state.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	booking := &models.Booking{
		ProfessorID:   req.ProfessorID,
		ParentID:      req.ParentID,
		ChildName:     req.ChildName,
		SubjectID:     req.SubjectID,
		LevelID:       req.LevelID,
		Status:        models.BookingPending,
		PaymentStatus: models.BookingPaymentPending,
		TotalPrice:    req.TotalPrice,
		ScheduledAt:   req.ScheduledAt,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	s.invalidateAnalytics(ctx)
	return booking, nil
}

// Update modifies mutable booking fields. Terminal bookings stay frozen.
func (s *BookingService) Update(ctx context.Context, id string, req UpdateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCompleted || booking.Status == models.BookingCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("booking in %s state cannot be modified", booking.Status))
	}

	booking.ChildName = req.ChildName
	booking.SubjectID = req.SubjectID
	booking.LevelID = req.LevelID
	booking.TotalPrice = req.TotalPrice
	booking.ScheduledAt = req.ScheduledAt
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking")
	}
	s.invalidateAnalytics(ctx)
	return booking, nil
}

// Transition moves a booking to the requested lifecycle status, enforcing
// the allowed transition graph.
func (s *BookingService) Transition(ctx context.Context, id string, target models.BookingStatus) (*models.Booking, error) {
	switch target {
	case models.BookingPending, models.BookingConfirmed, models.BookingCompleted, models.BookingCancelled:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown booking status %q", target))
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(bookingTransitions[booking.Status], target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move booking from %s to %s", booking.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}
	booking.Status = target
	s.invalidateAnalytics(ctx)
	return booking, nil
}

func transitionAllowed[T comparable](allowed []T, target T) bool {
	for _, candidate := range allowed {
		if candidate == target {
			return true
		}
	}
	return false
}

func (s *BookingService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateReporting(ctx)
}

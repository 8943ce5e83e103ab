package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

type bookingPaymentMirror interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.BookingPaymentStatus) error
}

// paymentTransitions is the allowed payment lifecycle graph. Failed and
// refunded are terminal; completed can only move to refunded.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentCompleted: {models.PaymentRefunded},
}

// CreatePaymentRequest holds payload for recording payments.
type CreatePaymentRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	UserID    string  `json:"user_id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"required,oneof=card transfer cash wallet"`
}

// PaymentService handles payment lifecycle use-cases. Payment state changes
// are mirrored onto the owning booking row.
type PaymentService struct {
	repo      paymentRepository
	bookings  bookingPaymentMirror
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, bookings bookingPaymentMirror, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, bookings: bookings, cache: cache, validator: validate, logger: logger}
}

// List returns payments and pagination metadata.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return payments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// Create records a new pending payment against a booking.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if _, err := s.bookings.FindByID(ctx, req.BookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}

	payment := &models.Payment{
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    models.PaymentPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	s.invalidateAnalytics(ctx)
	return payment, nil
}

// Transition moves a payment to the requested status and mirrors the change
// onto the booking.
func (s *PaymentService) Transition(ctx context.Context, id string, target models.PaymentStatus) (*models.Payment, error) {
	switch target {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed, models.PaymentRefunded:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown payment status %q", target))
	}

	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(paymentTransitions[payment.Status], target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move payment from %s to %s", payment.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment status")
	}
	payment.Status = target

	var mirror models.BookingPaymentStatus
	switch target {
	case models.PaymentCompleted:
		mirror = models.BookingPaymentPaid
	case models.PaymentRefunded:
		mirror = models.BookingPaymentRefunded
	}
	if mirror != "" {
		if err := s.bookings.UpdatePaymentStatus(ctx, payment.BookingID, mirror); err != nil {
			s.logger.Warn("mirror payment status onto booking", zap.String("booking_id", payment.BookingID), zap.Error(err))
		}
	}

	s.invalidateAnalytics(ctx)
	return payment, nil
}

func (s *PaymentService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateReporting(ctx)
}

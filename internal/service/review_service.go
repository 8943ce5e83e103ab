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

type reviewRepository interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error)
	FindByID(ctx context.Context, id string) (*models.Review, error)
	ExistsForBooking(ctx context.Context, bookingID, parentID string) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	UpdateStatus(ctx context.Context, id string, status models.ModerationStatus) error
	Delete(ctx context.Context, id string) error
}

type reviewBookingFinder interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
}

// CreateReviewRequest holds payload for submitting reviews.
type CreateReviewRequest struct {
	BookingID       string `json:"booking_id" validate:"required,uuid4"`
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	TeachingQuality int    `json:"teaching_quality" validate:"required,min=1,max=5"`
	Punctuality     int    `json:"punctuality" validate:"required,min=1,max=5"`
	Communication   int    `json:"communication" validate:"required,min=1,max=5"`
	Patience        int    `json:"patience" validate:"required,min=1,max=5"`
	Comment         string `json:"comment"`
}

// ReviewService handles review submission and moderation. Only approved
// reviews feed the rating aggregators, so moderation decisions invalidate
// cached analytics.
type ReviewService struct {
	repo      reviewRepository
	bookings  reviewBookingFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs the review service.
func NewReviewService(repo reviewRepository, bookings reviewBookingFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{repo: repo, bookings: bookings, cache: cache, validator: validate, logger: logger}
}

// List returns reviews and pagination metadata.
func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, *models.Pagination, error) {
	reviews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return reviews, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single review.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}

// Create submits a review for a completed booking. One review per booking
// and parent.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	if booking.Status != models.BookingCompleted {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "reviews require a completed booking")
	}
	exists, err := s.repo.ExistsForBooking(ctx, req.BookingID, booking.ParentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing review")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking already reviewed")
	}

	review := &models.Review{
		ProfessorID:     booking.ProfessorID,
		ParentID:        booking.ParentID,
		BookingID:       req.BookingID,
		Rating:          req.Rating,
		TeachingQuality: req.TeachingQuality,
		Punctuality:     req.Punctuality,
		Communication:   req.Communication,
		Patience:        req.Patience,
		Comment:         req.Comment,
		Status:          models.ReviewPending,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}

// Moderate approves or rejects a pending review.
func (s *ReviewService) Moderate(ctx context.Context, id string, target models.ModerationStatus) (*models.Review, error) {
	if target != models.ReviewApproved && target != models.ReviewRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown moderation decision %q", target))
	}

	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status != models.ReviewPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("review already moderated as %s", review.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review status")
	}
	review.Status = target
	s.invalidateAnalytics(ctx)
	return review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

func (s *ReviewService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateReporting(ctx)
}

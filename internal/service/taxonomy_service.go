package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type taxonomyRepository interface {
	ListCycles(ctx context.Context, filter models.TaxonomyFilter) ([]models.Cycle, int, error)
	FindCycleByID(ctx context.Context, id string) (*models.Cycle, error)
	CreateCycle(ctx context.Context, cycle *models.Cycle) error
	UpdateCycle(ctx context.Context, cycle *models.Cycle) error
	DeleteCycle(ctx context.Context, id string) error
	ListLevels(ctx context.Context, filter models.TaxonomyFilter) ([]models.Level, int, error)
	FindLevelByID(ctx context.Context, id string) (*models.Level, error)
	CreateLevel(ctx context.Context, level *models.Level) error
	UpdateLevel(ctx context.Context, level *models.Level) error
	DeleteLevel(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, filter models.TaxonomyFilter) ([]models.Subject, int, error)
	FindSubjectByID(ctx context.Context, id string) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject *models.Subject) error
	UpdateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubject(ctx context.Context, id string) error
}

// NameRequest holds payload for simple named taxonomy records.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// LevelRequest holds payload for levels, which belong to a cycle.
type LevelRequest struct {
	CycleID string `json:"cycle_id" validate:"required,uuid4"`
	Name    string `json:"name" validate:"required"`
}

// TaxonomyService handles cycle, level and subject use-cases.
type TaxonomyService struct {
	repo      taxonomyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaxonomyService constructs the taxonomy service.
func NewTaxonomyService(repo taxonomyRepository, validate *validator.Validate, logger *zap.Logger) *TaxonomyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxonomyService{repo: repo, validator: validate, logger: logger}
}

// ListCycles returns cycles and pagination metadata.
func (s *TaxonomyService) ListCycles(ctx context.Context, filter models.TaxonomyFilter) ([]models.Cycle, *models.Pagination, error) {
	cycles, total, err := s.repo.ListCycles(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cycles")
	}
	return cycles, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetCycle returns a single cycle.
func (s *TaxonomyService) GetCycle(ctx context.Context, id string) (*models.Cycle, error) {
	cycle, err := s.repo.FindCycleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
	}
	return cycle, nil
}

// CreateCycle registers a new schooling cycle.
func (s *TaxonomyService) CreateCycle(ctx context.Context, req NameRequest) (*models.Cycle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cycle payload")
	}
	cycle := &models.Cycle{Name: req.Name}
	if err := s.repo.CreateCycle(ctx, cycle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cycle")
	}
	return cycle, nil
}

// UpdateCycle modifies an existing cycle.
func (s *TaxonomyService) UpdateCycle(ctx context.Context, id string, req NameRequest) (*models.Cycle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cycle payload")
	}
	cycle, err := s.GetCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	cycle.Name = req.Name
	if err := s.repo.UpdateCycle(ctx, cycle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cycle")
	}
	return cycle, nil
}

// DeleteCycle removes a cycle.
func (s *TaxonomyService) DeleteCycle(ctx context.Context, id string) error {
	if _, err := s.GetCycle(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCycle(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cycle")
	}
	return nil
}

// ListLevels returns levels and pagination metadata.
func (s *TaxonomyService) ListLevels(ctx context.Context, filter models.TaxonomyFilter) ([]models.Level, *models.Pagination, error) {
	levels, total, err := s.repo.ListLevels(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list levels")
	}
	return levels, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetLevel returns a single level.
func (s *TaxonomyService) GetLevel(ctx context.Context, id string) (*models.Level, error) {
	level, err := s.repo.FindLevelByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}
	return level, nil
}

// CreateLevel registers a new level under a cycle.
func (s *TaxonomyService) CreateLevel(ctx context.Context, req LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid level payload")
	}
	if _, err := s.GetCycle(ctx, req.CycleID); err != nil {
		return nil, err
	}
	level := &models.Level{CycleID: req.CycleID, Name: req.Name}
	if err := s.repo.CreateLevel(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create level")
	}
	return level, nil
}

// UpdateLevel modifies an existing level.
func (s *TaxonomyService) UpdateLevel(ctx context.Context, id string, req LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid level payload")
	}
	level, err := s.GetLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCycle(ctx, req.CycleID); err != nil {
		return nil, err
	}
	level.CycleID = req.CycleID
	level.Name = req.Name
	if err := s.repo.UpdateLevel(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update level")
	}
	return level, nil
}

// DeleteLevel removes a level.
func (s *TaxonomyService) DeleteLevel(ctx context.Context, id string) error {
	if _, err := s.GetLevel(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteLevel(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete level")
	}
	return nil
}

// ListSubjects returns subjects and pagination metadata.
func (s *TaxonomyService) ListSubjects(ctx context.Context, filter models.TaxonomyFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.ListSubjects(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetSubject returns a single subject.
func (s *TaxonomyService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindSubjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// CreateSubject registers a new subject.
func (s *TaxonomyService) CreateSubject(ctx context.Context, req NameRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: req.Name}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// UpdateSubject modifies an existing subject.
func (s *TaxonomyService) UpdateSubject(ctx context.Context, id string, req NameRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	subject.Name = req.Name
	if err := s.repo.UpdateSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// DeleteSubject removes a subject.
func (s *TaxonomyService) DeleteSubject(ctx context.Context, id string) error {
	if _, err := s.GetSubject(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSubject(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

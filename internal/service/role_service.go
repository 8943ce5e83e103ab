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

type roleRepository interface {
	List(ctx context.Context, filter models.RoleFilter) ([]models.Role, int, error)
	FindByID(ctx context.Context, id string) (*models.Role, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
	CountAssignments(ctx context.Context, id string) (int, error)
}

// RoleRequest holds payload for creating or updating roles.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,uppercase"`
	Description string `json:"description"`
}

// RoleService handles role administration use-cases.
type RoleService struct {
	repo      roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs the role service.
func NewRoleService(repo roleRepository, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, validator: validate, logger: logger}
}

// List returns roles and pagination metadata.
func (s *RoleService) List(ctx context.Context, filter models.RoleFilter) ([]models.Role, *models.Pagination, error) {
	roles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single role.
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load role")
	}
	return role, nil
}

// Create registers a new role.
func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate role name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "role name already used")
	}
	role := &models.Role{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create role")
	}
	return role, nil
}

// Update modifies an existing role.
func (s *RoleService) Update(ctx context.Context, id string, req RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate role name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "role name already used")
	}
	role.Name = req.Name
	role.Description = req.Description
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}
	return role, nil
}

// Delete removes a role that has no remaining assignments.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	assignments, err := s.repo.CountAssignments(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count role assignments")
	}
	if assignments > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "role still assigned to users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete role")
	}
	return nil
}

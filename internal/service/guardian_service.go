package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type guardianRepository interface {
	GetByID(ctx context.Context, id string) (*models.Guardian, error)
	FindByEmail(ctx context.Context, email string) (*models.Guardian, error)
	List(ctx context.Context, filter models.GuardianFilter) ([]models.Guardian, int, error)
	Create(ctx context.Context, guardian *models.Guardian) error
	Update(ctx context.Context, guardian *models.Guardian) error
	Delete(ctx context.Context, id string) error
	ListChildren(ctx context.Context, guardianID string) ([]models.Child, error)
	CreateChild(ctx context.Context, child *models.Child) error
	DeleteChild(ctx context.Context, id string) error
}

// GuardianCreateRequest registers a guardian account.
type GuardianCreateRequest struct {
	SchoolID    string `json:"school_id" validate:"required,uuid"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// GuardianUpdateRequest modifies a guardian's profile. An empty password
// leaves the current one untouched.
type GuardianUpdateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// ChildRequest links a child to a guardian.
type ChildRequest struct {
	ClassID  string     `json:"class_id" validate:"required,uuid"`
	Name     string     `json:"name" validate:"required,max=100"`
	Birthday *time.Time `json:"birthday"`
}

// GuardianService manages guardian accounts and their children.
type GuardianService struct {
	repo      guardianRepository
	validator adValidator
	logger    *zap.Logger
}

// NewGuardianService constructs the service.
func NewGuardianService(repo guardianRepository, validate adValidator, logger *zap.Logger) *GuardianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardianService{repo: repo, validator: validate, logger: logger}
}

// Get returns a guardian by id.
func (s *GuardianService) Get(ctx context.Context, id string) (*models.Guardian, error) {
	guardian, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guardian not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get guardian")
	}
	return guardian, nil
}

// List returns guardians matching the filter with a total count.
func (s *GuardianService) List(ctx context.Context, filter models.GuardianFilter) ([]models.Guardian, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	guardians, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guardians")
	}
	if guardians == nil {
		guardians = []models.Guardian{}
	}
	return guardians, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a guardian account. The email must be unused.
func (s *GuardianService) Create(ctx context.Context, req GuardianCreateRequest) (*models.Guardian, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	guardian := &models.Guardian{
		SchoolID:     req.SchoolID,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	if err := s.repo.Create(ctx, guardian); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create guardian")
	}
	return guardian, nil
}

// Update modifies a guardian's profile and optionally the password.
func (s *GuardianService) Update(ctx context.Context, id string, req GuardianUpdateRequest) (*models.Guardian, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}
	guardian, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guardian.Email = req.Email
	guardian.DisplayName = req.DisplayName
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		guardian.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, guardian); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guardian")
	}
	return guardian, nil
}

// Delete removes a guardian account.
func (s *GuardianService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete guardian")
	}
	return nil
}

// ListChildren returns the children linked to a guardian.
func (s *GuardianService) ListChildren(ctx context.Context, guardianID string) ([]models.Child, error) {
	children, err := s.repo.ListChildren(ctx, guardianID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}
	if children == nil {
		children = []models.Child{}
	}
	return children, nil
}

// AddChild links a child to a guardian. The child inherits the
// guardian's school.
func (s *GuardianService) AddChild(ctx context.Context, guardianID string, req ChildRequest) (*models.Child, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid child payload")
	}
	guardian, err := s.Get(ctx, guardianID)
	if err != nil {
		return nil, err
	}
	child := &models.Child{
		SchoolID:   guardian.SchoolID,
		ClassID:    req.ClassID,
		GuardianID: guardianID,
		Name:       req.Name,
		Birthday:   req.Birthday,
	}
	if err := s.repo.CreateChild(ctx, child); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add child")
	}
	return child, nil
}

// RemoveChild unlinks a child.
func (s *GuardianService) RemoveChild(ctx context.Context, childID string) error {
	if err := s.repo.DeleteChild(ctx, childID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove child")
	}
	return nil
}

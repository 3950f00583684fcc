package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type schoolRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.School, error)
	GetByID(ctx context.Context, id string) (*models.School, error)
	List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id string) error
}

type classRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Class, error)
	GetByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
}

// SchoolRequest is the admin payload for creating or updating a school.
type SchoolRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Slug           string  `json:"slug" validate:"omitempty,max=100"`
	PopDisplayMode *string `json:"pop_display_mode" validate:"omitempty,oneof=priority rotation"`
}

// ClassRequest is the admin payload for creating or updating a class.
type ClassRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	ClassCode string `json:"class_code" validate:"required,min=4,max=32"`
}

// SchoolService manages schools and their classes.
type SchoolService struct {
	repo      schoolRepository
	classes   classRepository
	validator adValidator
	logger    *zap.Logger
}

// NewSchoolService constructs the service.
func NewSchoolService(repo schoolRepository, classes classRepository, validate adValidator, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// GetBySlug resolves a school from its public slug.
func (s *SchoolService) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	school, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get school")
	}
	return school, nil
}

// Get returns a school by id.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get school")
	}
	return school, nil
}

// List returns schools matching the filter with a total count.
func (s *SchoolService) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	schools, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	if schools == nil {
		schools = []models.School{}
	}
	return schools, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a school. When no slug is supplied one is derived from
// the name and made unique.
func (s *SchoolService) Create(ctx context.Context, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	slug, err := s.uniqueSlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	school := &models.School{
		Name:           req.Name,
		Slug:           slug,
		PopDisplayMode: req.PopDisplayMode,
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}
	return school, nil
}

// Update modifies a school. The slug is immutable once assigned.
func (s *SchoolService) Update(ctx context.Context, id string, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}
	school, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	school.Name = req.Name
	school.PopDisplayMode = req.PopDisplayMode
	if err := s.repo.Update(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update school")
	}
	return school, nil
}

// Delete removes a school.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}
	return nil
}

// ListClasses returns the classes of a school.
func (s *SchoolService) ListClasses(ctx context.Context, schoolID string) ([]models.Class, error) {
	classes, err := s.classes.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// CreateClass adds a class to a school.
func (s *SchoolService) CreateClass(ctx context.Context, schoolID string, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		SchoolID:  schoolID,
		Name:      req.Name,
		ClassCode: req.ClassCode,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// UpdateClass modifies a class.
func (s *SchoolService) UpdateClass(ctx context.Context, id string, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get class")
	}
	class.Name = req.Name
	class.ClassCode = req.ClassCode
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// DeleteClass removes a class.
func (s *SchoolService) DeleteClass(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// uniqueSlug appends a short random suffix until the slug is free.
func (s *SchoolService) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique slug")
}

// slugify lowercases ASCII letters and digits and collapses everything
// else into single hyphens. Non-ASCII names fall back to a generic base.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "school"
	}
	return slug
}

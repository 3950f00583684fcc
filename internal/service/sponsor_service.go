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

type sponsorRepository interface {
	ListActiveForSchool(ctx context.Context, schoolID string) ([]models.Sponsor, error)
	List(ctx context.Context) ([]models.Sponsor, error)
	GetByID(ctx context.Context, id string) (*models.Sponsor, error)
	Create(ctx context.Context, sponsor *models.Sponsor) error
	Update(ctx context.Context, sponsor *models.Sponsor) error
	Delete(ctx context.Context, id string) error
	InsertEvent(ctx context.Context, event *models.SponsorEvent) error
	PerformanceReport(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error)
}

type sponsorSchoolRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.School, error)
}

// SponsorBannerList is the public banner payload for a school page.
type SponsorBannerList struct {
	Sponsors    []models.Sponsor `json:"sponsors"`
	DisplayMode string           `json:"display_mode"`
}

// SponsorRequest is the admin payload for creating or updating a sponsor.
type SponsorRequest struct {
	Name      string     `json:"name" validate:"required"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	LinkURL   string     `json:"link_url" validate:"omitempty,url"`
	Priority  int        `json:"priority"`
	IsActive  bool       `json:"is_active"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	SchoolID  *string    `json:"school_id"`
}

// TrackEventRequest is the public sponsor interaction payload. The
// sponsor ID comes from the URL path, not the body.
type TrackEventRequest struct {
	SponsorID string `json:"-" validate:"required,uuid"`
	EventType string `json:"type" validate:"required"`
	SchoolID  string `json:"school_id" validate:"omitempty,uuid"`
}

// SponsorService serves banners, records interactions and backs the
// admin sponsor console.
type SponsorService struct {
	repo      sponsorRepository
	schools   sponsorSchoolRepository
	metrics   *MetricsService
	validator adValidator
	logger    *zap.Logger
}

// NewSponsorService constructs the service.
func NewSponsorService(repo sponsorRepository, schools sponsorSchoolRepository, metrics *MetricsService, validate adValidator, logger *zap.Logger) *SponsorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetricsService()
	}
	return &SponsorService{repo: repo, schools: schools, metrics: metrics, validator: validate, logger: logger}
}

// ListBanners returns the active sponsors shown on a school page together
// with the school's display mode. Active sponsors are shown regardless of
// their validity window; the window only drives reporting. An unknown
// slug yields an empty list under the default mode.
func (s *SponsorService) ListBanners(ctx context.Context, slug string) (*SponsorBannerList, error) {
	school, err := s.schools.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &SponsorBannerList{Sponsors: []models.Sponsor{}, DisplayMode: models.DisplayModePriority}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve school")
	}

	sponsors, err := s.repo.ListActiveForSchool(ctx, school.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sponsors")
	}
	if sponsors == nil {
		sponsors = []models.Sponsor{}
	}

	mode := models.DisplayModePriority
	if school.PopDisplayMode != nil && *school.PopDisplayMode != "" {
		mode = *school.PopDisplayMode
	}
	return &SponsorBannerList{Sponsors: sponsors, DisplayMode: mode}, nil
}

// Track records a sponsor interaction. An unknown event type is rejected
// with a validation error before anything is written.
func (s *SponsorService) Track(ctx context.Context, req TrackEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid track payload")
	}
	eventType := models.SponsorEventType(req.EventType)
	if !eventType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown event type")
	}

	event := &models.SponsorEvent{
		SponsorID: req.SponsorID,
		EventType: eventType,
	}
	if req.SchoolID != "" {
		schoolID := req.SchoolID
		event.SchoolID = &schoolID
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record sponsor event")
	}
	s.metrics.RecordSponsorEvent(req.EventType)
	return nil
}

// List returns every sponsor for the admin console.
func (s *SponsorService) List(ctx context.Context) ([]models.Sponsor, error) {
	sponsors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sponsors")
	}
	return sponsors, nil
}

// Get returns a single sponsor.
func (s *SponsorService) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	sponsor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get sponsor")
	}
	return sponsor, nil
}

// Create registers a new sponsor.
func (s *SponsorService) Create(ctx context.Context, req SponsorRequest) (*models.Sponsor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sponsor payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	sponsor := &models.Sponsor{
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		Priority:  req.Priority,
		IsActive:  req.IsActive,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		SchoolID:  req.SchoolID,
	}
	if err := s.repo.Create(ctx, sponsor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sponsor")
	}
	return sponsor, nil
}

// Update modifies an existing sponsor.
func (s *SponsorService) Update(ctx context.Context, id string, req SponsorRequest) (*models.Sponsor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sponsor payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	sponsor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sponsor.Name = req.Name
	sponsor.ImageURL = req.ImageURL
	sponsor.LinkURL = req.LinkURL
	sponsor.Priority = req.Priority
	sponsor.IsActive = req.IsActive
	sponsor.ValidFrom = req.ValidFrom
	sponsor.ValidTo = req.ValidTo
	sponsor.SchoolID = req.SchoolID
	if err := s.repo.Update(ctx, sponsor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sponsor")
	}
	return sponsor, nil
}

// Delete removes a sponsor.
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sponsor")
	}
	return nil
}

// Performance aggregates tracked events per sponsor over a date range.
func (s *SponsorService) Performance(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error) {
	report, err := s.repo.PerformanceReport(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build performance report")
	}
	if report == nil {
		report = []models.SponsorPerformance{}
	}
	return report, nil
}

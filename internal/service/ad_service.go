package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type adRepository interface {
	ListEligiblePrerolls(ctx context.Context, schoolID string, now time.Time) ([]models.PrerollAd, error)
	ListEligibleMidrolls(ctx context.Context, schoolID string, now time.Time) ([]models.MidrollAd, error)
	ListPrerolls(ctx context.Context) ([]models.PrerollAd, error)
	GetPreroll(ctx context.Context, id string) (*models.PrerollAd, error)
	CreatePreroll(ctx context.Context, ad *models.PrerollAd) error
	UpdatePreroll(ctx context.Context, ad *models.PrerollAd) error
	DeletePreroll(ctx context.Context, id string) error
	ListMidrolls(ctx context.Context) ([]models.MidrollAd, error)
	GetMidroll(ctx context.Context, id string) (*models.MidrollAd, error)
	CreateMidroll(ctx context.Context, ad *models.MidrollAd) error
	UpdateMidroll(ctx context.Context, ad *models.MidrollAd) error
	DeleteMidroll(ctx context.Context, id string) error
}

type adSchoolRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.School, error)
}

type adCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AdService selects ads for playback and backs the admin ad console.
type AdService struct {
	repo    adRepository
	schools adSchoolRepository
	cache   adCache
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration

	// intn draws a uniform value in [0, n); overridable in tests.
	intn func(n int) int
}

// NewAdService constructs the service. cache may be nil.
func NewAdService(repo adRepository, schools adSchoolRepository, cache adCache, metrics *MetricsService, logger *zap.Logger, candidateTTL time.Duration) *AdService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if candidateTTL <= 0 {
		candidateTTL = time.Minute
	}
	if metrics == nil {
		metrics = NewMetricsService()
	}
	return &AdService{
		repo:    repo,
		schools: schools,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		ttl:     candidateTTL,
		intn:    rand.Intn,
	}
}

// SelectPreroll picks at most one preroll ad for the school at the given
// instant. Among all eligible ads only the ones sharing the maximum
// priority are considered; the winner is drawn uniformly at random from
// that set. An unknown slug or an empty candidate set yields nil, not an
// error.
func (s *AdService) SelectPreroll(ctx context.Context, slug string, now time.Time) (*models.PrerollAd, error) {
	school, err := s.schools.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve school")
	}

	candidates, err := s.prerollCandidates(ctx, school.ID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preroll ads")
	}
	// Cached sets can outlive an ad's validity window, so the window is
	// re-checked at draw time.
	candidates = inWindow(candidates, now)
	if len(candidates) == 0 {
		return nil, nil
	}

	top := maxPriority(candidates)
	pool := make([]models.PrerollAd, 0, len(candidates))
	for _, ad := range candidates {
		if ad.Priority == top {
			pool = append(pool, ad)
		}
	}

	chosen := pool[s.intn(len(pool))]
	s.metrics.RecordAdServed("preroll")
	return &chosen, nil
}

// ListMidrolls returns every eligible midroll ad for the school, ordered
// by priority then recency. The client player decides trigger behaviour
// from trigger_type/trigger_value. An unknown slug yields an empty list.
func (s *AdService) ListMidrolls(ctx context.Context, slug string, now time.Time) ([]models.MidrollAd, error) {
	school, err := s.schools.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.MidrollAd{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve school")
	}

	ads, err := s.repo.ListEligibleMidrolls(ctx, school.ID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load midroll ads")
	}
	if ads == nil {
		ads = []models.MidrollAd{}
	}
	if len(ads) > 0 {
		s.metrics.RecordAdServed("midroll")
	}
	return ads, nil
}

// prerollCandidates serves the eligible set from cache when possible. The
// random draw itself is never cached.
func (s *AdService) prerollCandidates(ctx context.Context, schoolID string, now time.Time) ([]models.PrerollAd, error) {
	key := fmt.Sprintf("ads:preroll:%s", schoolID)
	if s.cache != nil {
		var cached []models.PrerollAd
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	candidates, err := s.repo.ListEligiblePrerolls(ctx, schoolID, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, candidates, s.ttl); err != nil {
			s.logger.Warn("failed to cache preroll candidates", zap.String("school_id", schoolID), zap.Error(err))
		}
	}
	return candidates, nil
}

// inWindow keeps the ads whose validity window contains the given
// instant. Bounds are inclusive, matching the eligibility query.
func inWindow(ads []models.PrerollAd, now time.Time) []models.PrerollAd {
	kept := make([]models.PrerollAd, 0, len(ads))
	for _, ad := range ads {
		if ad.ValidFrom != nil && ad.ValidFrom.After(now) {
			continue
		}
		if ad.ValidTo != nil && ad.ValidTo.Before(now) {
			continue
		}
		kept = append(kept, ad)
	}
	return kept
}

func maxPriority(ads []models.PrerollAd) int {
	top := ads[0].Priority
	for _, ad := range ads[1:] {
		if ad.Priority > top {
			top = ad.Priority
		}
	}
	return top
}

// invalidateCandidates drops cached eligible sets after an admin edit.
func (s *AdService) invalidateCandidates(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "ads:preroll:*"); err != nil {
		s.logger.Warn("failed to invalidate ad cache", zap.Error(err))
	}
}

// --- admin console operations ---

// PrerollRequest is the admin payload for creating or updating a preroll ad.
type PrerollRequest struct {
	Name             string     `json:"name" validate:"required"`
	VideoURL         string     `json:"video_url" validate:"required,url"`
	LinkURL          string     `json:"link_url" validate:"omitempty,url"`
	CTAText          string     `json:"cta_text"`
	SkipAfterSeconds int        `json:"skip_after_seconds" validate:"gte=0"`
	Priority         int        `json:"priority"`
	IsActive         bool       `json:"is_active"`
	ValidFrom        *time.Time `json:"valid_from"`
	ValidTo          *time.Time `json:"valid_to"`
	SchoolID         *string    `json:"school_id"`
	SponsorID        *string    `json:"sponsor_id"`
}

// MidrollRequest is the admin payload for creating or updating a midroll ad.
type MidrollRequest struct {
	Name             string     `json:"name" validate:"required"`
	VideoURL         string     `json:"video_url" validate:"required,url"`
	LinkURL          string     `json:"link_url" validate:"omitempty,url"`
	CTAText          string     `json:"cta_text"`
	SkipAfterSeconds int        `json:"skip_after_seconds" validate:"gte=0"`
	TriggerType      string     `json:"trigger_type" validate:"required,oneof=percentage time"`
	TriggerValue     int        `json:"trigger_value" validate:"gte=0"`
	Priority         int        `json:"priority"`
	IsActive         bool       `json:"is_active"`
	ValidFrom        *time.Time `json:"valid_from"`
	ValidTo          *time.Time `json:"valid_to"`
	SchoolID         *string    `json:"school_id"`
	SponsorID        *string    `json:"sponsor_id"`
}

type adValidator interface {
	Struct(s interface{}) error
}

// AdAdminService wraps AdService with validated admin CRUD.
type AdAdminService struct {
	ads       *AdService
	validator adValidator
}

// NewAdAdminService constructs the admin facade.
func NewAdAdminService(ads *AdService, validate adValidator) *AdAdminService {
	return &AdAdminService{ads: ads, validator: validate}
}

// ListPrerolls returns every preroll ad.
func (s *AdAdminService) ListPrerolls(ctx context.Context) ([]models.PrerollAd, error) {
	ads, err := s.ads.repo.ListPrerolls(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preroll ads")
	}
	return ads, nil
}

// CreatePreroll registers a new preroll ad.
func (s *AdAdminService) CreatePreroll(ctx context.Context, req PrerollRequest) (*models.PrerollAd, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preroll payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	ad := &models.PrerollAd{
		Name:             req.Name,
		VideoURL:         req.VideoURL,
		LinkURL:          req.LinkURL,
		CTAText:          req.CTAText,
		SkipAfterSeconds: req.SkipAfterSeconds,
		Priority:         req.Priority,
		IsActive:         req.IsActive,
		ValidFrom:        req.ValidFrom,
		ValidTo:          req.ValidTo,
		SchoolID:         req.SchoolID,
		SponsorID:        req.SponsorID,
	}
	if err := s.ads.repo.CreatePreroll(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create preroll ad")
	}
	s.ads.invalidateCandidates(ctx)
	return ad, nil
}

// UpdatePreroll modifies an existing preroll ad.
func (s *AdAdminService) UpdatePreroll(ctx context.Context, id string, req PrerollRequest) (*models.PrerollAd, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preroll payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	ad, err := s.ads.repo.GetPreroll(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "preroll ad not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get preroll ad")
	}
	ad.Name = req.Name
	ad.VideoURL = req.VideoURL
	ad.LinkURL = req.LinkURL
	ad.CTAText = req.CTAText
	ad.SkipAfterSeconds = req.SkipAfterSeconds
	ad.Priority = req.Priority
	ad.IsActive = req.IsActive
	ad.ValidFrom = req.ValidFrom
	ad.ValidTo = req.ValidTo
	ad.SchoolID = req.SchoolID
	ad.SponsorID = req.SponsorID
	if err := s.ads.repo.UpdatePreroll(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preroll ad")
	}
	s.ads.invalidateCandidates(ctx)
	return ad, nil
}

// DeletePreroll removes a preroll ad.
func (s *AdAdminService) DeletePreroll(ctx context.Context, id string) error {
	if err := s.ads.repo.DeletePreroll(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preroll ad")
	}
	s.ads.invalidateCandidates(ctx)
	return nil
}

// ListMidrolls returns every midroll ad.
func (s *AdAdminService) ListMidrolls(ctx context.Context) ([]models.MidrollAd, error) {
	ads, err := s.ads.repo.ListMidrolls(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list midroll ads")
	}
	return ads, nil
}

// CreateMidroll registers a new midroll ad.
func (s *AdAdminService) CreateMidroll(ctx context.Context, req MidrollRequest) (*models.MidrollAd, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid midroll payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	ad := &models.MidrollAd{
		Name:             req.Name,
		VideoURL:         req.VideoURL,
		LinkURL:          req.LinkURL,
		CTAText:          req.CTAText,
		SkipAfterSeconds: req.SkipAfterSeconds,
		TriggerType:      req.TriggerType,
		TriggerValue:     req.TriggerValue,
		Priority:         req.Priority,
		IsActive:         req.IsActive,
		ValidFrom:        req.ValidFrom,
		ValidTo:          req.ValidTo,
		SchoolID:         req.SchoolID,
		SponsorID:        req.SponsorID,
	}
	if err := s.ads.repo.CreateMidroll(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create midroll ad")
	}
	return ad, nil
}

// UpdateMidroll modifies an existing midroll ad.
func (s *AdAdminService) UpdateMidroll(ctx context.Context, id string, req MidrollRequest) (*models.MidrollAd, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid midroll payload")
	}
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	ad, err := s.ads.repo.GetMidroll(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "midroll ad not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get midroll ad")
	}
	ad.Name = req.Name
	ad.VideoURL = req.VideoURL
	ad.LinkURL = req.LinkURL
	ad.CTAText = req.CTAText
	ad.SkipAfterSeconds = req.SkipAfterSeconds
	ad.TriggerType = req.TriggerType
	ad.TriggerValue = req.TriggerValue
	ad.Priority = req.Priority
	ad.IsActive = req.IsActive
	ad.ValidFrom = req.ValidFrom
	ad.ValidTo = req.ValidTo
	ad.SchoolID = req.SchoolID
	ad.SponsorID = req.SponsorID
	if err := s.ads.repo.UpdateMidroll(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update midroll ad")
	}
	return ad, nil
}

// DeleteMidroll removes a midroll ad.
func (s *AdAdminService) DeleteMidroll(ctx context.Context, id string) error {
	if err := s.ads.repo.DeleteMidroll(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete midroll ad")
	}
	return nil
}

func validateWindow(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return appErrors.Clone(appErrors.ErrValidation, "valid_to must not precede valid_from")
	}
	return nil
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type stampRepository interface {
	RecordLogin(ctx context.Context, guardianID string, now time.Time) (bool, []models.Stamp, error)
	ListForYear(ctx context.Context, guardianID string, year int) ([]models.Stamp, error)
}

// StampService maintains the yearly login stamp card.
type StampService struct {
	repo   stampRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewStampService constructs the service.
func NewStampService(repo stampRepository, logger *zap.Logger) *StampService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StampService{repo: repo, logger: logger, now: time.Now}
}

// RecordLogin stamps today's date on the guardian's card for the current
// year. Calling it twice on the same day is a no-op for the card; the
// result reports whether this call created the stamp.
func (s *StampService) RecordLogin(ctx context.Context, guardianID string) (*models.StampResult, error) {
	isNew, stamps, err := s.repo.RecordLogin(ctx, guardianID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record login stamp")
	}
	if stamps == nil {
		stamps = []models.Stamp{}
	}
	return &models.StampResult{IsNew: isNew, Stamps: stamps, Total: len(stamps)}, nil
}

// Card returns the guardian's stamps for the given year. A year of zero
// means the current year.
func (s *StampService) Card(ctx context.Context, guardianID string, year int) (*models.StampResult, error) {
	if year == 0 {
		year = s.now().Year()
	}
	stamps, err := s.repo.ListForYear(ctx, guardianID, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stamp card")
	}
	if stamps == nil {
		stamps = []models.Stamp{}
	}
	return &models.StampResult{IsNew: false, Stamps: stamps, Total: len(stamps)}, nil
}

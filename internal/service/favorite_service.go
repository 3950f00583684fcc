package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type favoriteRepository interface {
	Toggle(ctx context.Context, guardianID, videoID string) (bool, error)
	ListVideos(ctx context.Context, guardianID string) ([]models.Video, error)
}

// ToggleResult reports the favorite state after a toggle.
type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

// FavoriteService manages a guardian's favorited videos.
type FavoriteService struct {
	repo   favoriteRepository
	logger *zap.Logger
}

// NewFavoriteService constructs the service.
func NewFavoriteService(repo favoriteRepository, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{repo: repo, logger: logger}
}

// Toggle flips the favorite state for a video and returns the new state.
func (s *FavoriteService) Toggle(ctx context.Context, guardianID, videoID string) (*ToggleResult, error) {
	favorited, err := s.repo.Toggle(ctx, guardianID, videoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle favorite")
	}
	return &ToggleResult{Favorited: favorited}, nil
}

// List returns the guardian's favorited videos, newest first.
func (s *FavoriteService) List(ctx context.Context, guardianID string) ([]models.Video, error) {
	videos, err := s.repo.ListVideos(ctx, guardianID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

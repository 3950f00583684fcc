package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/storage"
)

type videoRepository interface {
	List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	Update(ctx context.Context, video *models.Video) error
	DeleteWithDependents(ctx context.Context, id string) error
}

type videoMediaStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type videoNotifier interface {
	NotifySchool(schoolID, title, body string)
}

// VideoRequest is the admin payload for creating or updating a video.
type VideoRequest struct {
	SchoolID        string  `json:"school_id" validate:"required,uuid"`
	ClassID         *string `json:"class_id" validate:"omitempty,uuid"`
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"max=2000"`
	StorageKey      string  `json:"storage_key" validate:"required"`
	ThumbnailKey    *string `json:"thumbnail_key"`
	DurationSeconds int     `json:"duration_seconds" validate:"gte=0"`
}

// VideoDetail is a video plus short-lived playback URLs.
type VideoDetail struct {
	models.Video
	PlaybackURL  string `json:"playback_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// VideoService manages growth-record videos: listing for guardians,
// admin CRUD, publishing and transactional deletion.
type VideoService struct {
	repo      videoRepository
	media     videoMediaStore
	notifier  videoNotifier
	validator adValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewVideoService constructs the service. media and notifier may be nil.
func NewVideoService(repo videoRepository, media videoMediaStore, notifier videoNotifier, validate adValidator, logger *zap.Logger) *VideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{
		repo:      repo,
		media:     media,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns videos matching the filter with a total count for paging.
func (s *VideoService) List(ctx context.Context, filter models.VideoFilter) ([]models.Video, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	videos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list videos")
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a video with presigned playback URLs.
func (s *VideoService) Get(ctx context.Context, id string) (*VideoDetail, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get video")
	}

	detail := &VideoDetail{Video: *video}
	if s.media != nil {
		if url, err := s.media.PresignDownload(ctx, video.StorageKey); err == nil {
			detail.PlaybackURL = url
		} else {
			s.logger.Warn("failed to presign video url", zap.String("video_id", video.ID), zap.Error(err))
		}
		if video.ThumbnailKey != nil {
			if url, err := s.media.PresignDownload(ctx, *video.ThumbnailKey); err == nil {
				detail.ThumbnailURL = url
			}
		}
	}
	return detail, nil
}

// Create registers a video; it stays unpublished until Publish.
func (s *VideoService) Create(ctx context.Context, req VideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	video := &models.Video{
		SchoolID:        req.SchoolID,
		ClassID:         req.ClassID,
		Title:           req.Title,
		Description:     req.Description,
		StorageKey:      req.StorageKey,
		ThumbnailKey:    req.ThumbnailKey,
		DurationSeconds: req.DurationSeconds,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create video")
	}
	return video, nil
}

// Update modifies a video's metadata.
func (s *VideoService) Update(ctx context.Context, id string, req VideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get video")
	}
	// school_id and storage_key are fixed at registration time.
	video.ClassID = req.ClassID
	video.Title = req.Title
	video.Description = req.Description
	video.ThumbnailKey = req.ThumbnailKey
	video.DurationSeconds = req.DurationSeconds
	if err := s.repo.Update(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update video")
	}
	return video, nil
}

// Publish makes a video visible to guardians and notifies the school's
// registered devices. Publishing an already-published video is a no-op.
func (s *VideoService) Publish(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get video")
	}
	if video.PublishedAt != nil {
		return video, nil
	}
	now := s.now()
	video.PublishedAt = &now
	if err := s.repo.Update(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish video")
	}
	if s.notifier != nil {
		s.notifier.NotifySchool(video.SchoolID, "新しい動画が届きました", video.Title)
	}
	return video, nil
}

// Delete removes a video and all its dependent records in one
// transaction, then removes the stored objects best-effort.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get video")
	}
	if err := s.repo.DeleteWithDependents(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete video")
	}
	if s.media != nil {
		if err := s.media.Delete(ctx, video.StorageKey); err != nil {
			s.logger.Warn("failed to delete video object", zap.String("key", video.StorageKey), zap.Error(err))
		}
		if video.ThumbnailKey != nil {
			if err := s.media.Delete(ctx, *video.ThumbnailKey); err != nil {
				s.logger.Warn("failed to delete thumbnail object", zap.String("key", *video.ThumbnailKey), zap.Error(err))
			}
		}
	}
	return nil
}

// PresignUploadRequest asks for a short-lived upload URL.
type PresignUploadRequest struct {
	SchoolID    string `json:"school_id" validate:"required,uuid"`
	Kind        string `json:"kind" validate:"required,oneof=video thumbnail"`
	ContentType string `json:"content_type" validate:"required"`
}

// PresignUploadResponse carries the upload URL and the object key the
// client must echo back when registering the video.
type PresignUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PresignUpload issues a direct-to-storage upload URL for a new object.
func (s *VideoService) PresignUpload(ctx context.Context, req PresignUploadRequest) (*PresignUploadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid presign payload")
	}
	if !storage.ValidUploadType(req.ContentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported content type")
	}
	if s.media == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "media storage is not configured")
	}

	objectID := uuid.NewString()
	var key string
	switch req.Kind {
	case "thumbnail":
		key = storage.ThumbnailKey(req.SchoolID, objectID)
	default:
		key = storage.VideoKey(req.SchoolID, objectID)
	}
	url, expires, err := s.media.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to presign upload")
	}
	return &PresignUploadResponse{UploadURL: url, StorageKey: key, ExpiresAt: expires}, nil
}

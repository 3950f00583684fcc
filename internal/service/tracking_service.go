package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type trackingRepository interface {
	InsertView(ctx context.Context, view *models.VideoView) error
	InsertReaction(ctx context.Context, reaction *models.ReactionLog) error
	InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error
}

// ViewRequest records playback progress on a video. The video ID comes
// from the URL path, not the body.
type ViewRequest struct {
	VideoID        string `json:"-" validate:"required,uuid"`
	WatchedSeconds int    `json:"watched_seconds" validate:"gte=0"`
}

// ReactionRequest records a guardian reaction on a video. The video ID
// comes from the URL path, not the body.
type ReactionRequest struct {
	VideoID      string `json:"-" validate:"required,uuid"`
	ReactionType string `json:"reaction_type" validate:"required"`
}

// AnalyticsEventRequest is free-form client telemetry.
type AnalyticsEventRequest struct {
	EventType string          `json:"event_type" validate:"required,max=100"`
	Payload   json.RawMessage `json:"payload"`
	SchoolID  string          `json:"school_id" validate:"omitempty,uuid"`
}

// TrackingService ingests playback, reaction and telemetry records.
type TrackingService struct {
	repo      trackingRepository
	validator adValidator
	logger    *zap.Logger
}

// NewTrackingService constructs the service.
func NewTrackingService(repo trackingRepository, validate adValidator, logger *zap.Logger) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{repo: repo, validator: validate, logger: logger}
}

// RecordView appends a playback record. guardianID may be empty for
// class-code sessions.
func (s *TrackingService) RecordView(ctx context.Context, guardianID string, req ViewRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view payload")
	}
	view := &models.VideoView{
		VideoID:        req.VideoID,
		WatchedSeconds: req.WatchedSeconds,
	}
	if guardianID != "" {
		id := guardianID
		view.GuardianID = &id
	}
	if err := s.repo.InsertView(ctx, view); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record view")
	}
	return nil
}

// RecordReaction appends a reaction record.
func (s *TrackingService) RecordReaction(ctx context.Context, guardianID string, req ReactionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reaction payload")
	}
	reaction := models.ReactionType(req.ReactionType)
	if !reaction.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown reaction type")
	}
	log := &models.ReactionLog{
		VideoID:      req.VideoID,
		GuardianID:   guardianID,
		ReactionType: reaction,
	}
	if err := s.repo.InsertReaction(ctx, log); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record reaction")
	}
	return nil
}

// RecordEvent appends a telemetry record. Failures are logged and
// swallowed so the caller never sees an error from telemetry.
func (s *TrackingService) RecordEvent(ctx context.Context, req AnalyticsEventRequest) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Debug("dropped malformed analytics event", zap.Error(err))
		return
	}
	event := &models.AnalyticsEvent{
		EventType: req.EventType,
		Payload:   req.Payload,
	}
	if req.SchoolID != "" {
		id := req.SchoolID
		event.SchoolID = &id
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.logger.Warn("failed to persist analytics event", zap.String("event_type", req.EventType), zap.Error(err))
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/pkg/config"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/jobs"
)

type faceTagRepository interface {
	ListPending(ctx context.Context, limit int) ([]models.VideoFaceTag, error)
	GetByID(ctx context.Context, id string) (*models.VideoFaceTag, error)
	Insert(ctx context.Context, tag *models.VideoFaceTag) error
	Review(ctx context.Context, id string, status models.FaceTagStatus, reviewer string, ts time.Time) (int64, error)
	ListVideoIDsForSchool(ctx context.Context, schoolID string) ([]string, error)
}

// FaceAnalyzer detects faces in a stored video and returns candidate
// child matches. Implementations call an external vision backend.
type FaceAnalyzer interface {
	Analyze(ctx context.Context, videoID string) ([]models.VideoFaceTag, error)
}

// ReviewRequest resolves a pending face tag.
type ReviewRequest struct {
	Approve bool `json:"approve"`
}

// FaceTagService runs the face-detection pipeline and its admin review
// queue. Detected tags stay invisible to guardians until approved.
type FaceTagService struct {
	repo     faceTagRepository
	analyzer FaceAnalyzer
	logger   *zap.Logger
	now      func() time.Time
	queue    *jobs.Queue
}

// NewFaceTagService constructs the service and its analysis queue.
// Call Start before triggering analysis and Stop on shutdown.
// analyzer may be nil, in which case analysis jobs are rejected.
func NewFaceTagService(repo faceTagRepository, analyzer FaceAnalyzer, cfg config.FaceTagsConfig, logger *zap.Logger) *FaceTagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FaceTagService{
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
	s.queue = jobs.NewQueue("face-analysis", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: 10 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the analysis workers.
func (s *FaceTagService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the analysis workers.
func (s *FaceTagService) Stop() { s.queue.Stop() }

// ListPending returns the oldest pending tags for the review queue.
func (s *FaceTagService) ListPending(ctx context.Context, limit int) ([]models.VideoFaceTag, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tags, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending face tags")
	}
	if tags == nil {
		tags = []models.VideoFaceTag{}
	}
	return tags, nil
}

// Review approves or rejects a pending tag. A tag that was already
// reviewed cannot be reviewed again.
func (s *FaceTagService) Review(ctx context.Context, id, reviewer string, req ReviewRequest) (*models.VideoFaceTag, error) {
	status := models.FaceTagRejected
	if req.Approve {
		status = models.FaceTagApproved
	}
	affected, err := s.repo.Review(ctx, id, status, reviewer, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review face tag")
	}
	if affected == 0 {
		// Either the tag does not exist or it left PENDING already.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "face tag not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get face tag")
		}
		return nil, appErrors.Clone(appErrors.ErrAlreadyReviewed, "")
	}
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get face tag")
	}
	return tag, nil
}

// EnqueueAnalysis queues a single video for face detection. The caller
// gets an immediate answer; detection runs in the background.
func (s *FaceTagService) EnqueueAnalysis(videoID string) error {
	if s.analyzer == nil {
		return appErrors.Clone(appErrors.ErrInternal, "face analysis is not configured")
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "analyze-video",
		Payload: videoID,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue analysis")
	}
	return nil
}

// EnqueueSchoolAnalysis queues every video of a school for detection and
// returns the number of queued videos.
func (s *FaceTagService) EnqueueSchoolAnalysis(ctx context.Context, schoolID string) (int, error) {
	if s.analyzer == nil {
		return 0, appErrors.Clone(appErrors.ErrInternal, "face analysis is not configured")
	}
	videoIDs, err := s.repo.ListVideoIDsForSchool(ctx, schoolID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list school videos")
	}
	queued := 0
	for _, id := range videoIDs {
		if err := s.EnqueueAnalysis(id); err != nil {
			s.logger.Warn("failed to queue video for analysis", zap.String("video_id", id), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

func (s *FaceTagService) process(ctx context.Context, job jobs.Job) error {
	videoID, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("unexpected analysis job payload", zap.String("job_id", job.ID))
		return nil
	}
	tags, err := s.analyzer.Analyze(ctx, videoID)
	if err != nil {
		return fmt.Errorf("analyze video %s: %w", videoID, err)
	}
	for i := range tags {
		tags[i].VideoID = videoID
		tags[i].Status = models.FaceTagPending
		if err := s.repo.Insert(ctx, &tags[i]); err != nil {
			return fmt.Errorf("store face tag for video %s: %w", videoID, err)
		}
	}
	s.logger.Info("face analysis completed", zap.String("video_id", videoID), zap.Int("tags", len(tags)))
	return nil
}

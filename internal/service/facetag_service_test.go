package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/pkg/config"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type fakeFaceTagRepo struct {
	tags     map[string]*models.VideoFaceTag
	affected int64
	status   models.FaceTagStatus
	videoIDs []string
	inserted []models.VideoFaceTag
}

func (f *fakeFaceTagRepo) ListPending(ctx context.Context, limit int) ([]models.VideoFaceTag, error) {
	return nil, nil
}

func (f *fakeFaceTagRepo) GetByID(ctx context.Context, id string) (*models.VideoFaceTag, error) {
	if tag, ok := f.tags[id]; ok {
		return tag, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFaceTagRepo) Insert(ctx context.Context, tag *models.VideoFaceTag) error {
	f.inserted = append(f.inserted, *tag)
	return nil
}

func (f *fakeFaceTagRepo) Review(ctx context.Context, id string, status models.FaceTagStatus, reviewer string, ts time.Time) (int64, error) {
	f.status = status
	return f.affected, nil
}

func (f *fakeFaceTagRepo) ListVideoIDsForSchool(ctx context.Context, schoolID string) ([]string, error) {
	return f.videoIDs, nil
}

func newFaceTagServiceForTest(repo *fakeFaceTagRepo, analyzer FaceAnalyzer) *FaceTagService {
	cfg := config.FaceTagsConfig{WorkerConcurrency: 1, WorkerRetries: 0}
	return NewFaceTagService(repo, analyzer, cfg, zap.NewNop())
}

func TestReviewApprovesPendingTag(t *testing.T) {
	repo := &fakeFaceTagRepo{
		affected: 1,
		tags: map[string]*models.VideoFaceTag{
			"tag-1": {ID: "tag-1", Status: models.FaceTagApproved},
		},
	}
	svc := newFaceTagServiceForTest(repo, nil)

	tag, err := svc.Review(context.Background(), "tag-1", "admin@example.com", ReviewRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, models.FaceTagApproved, repo.status)
	assert.Equal(t, "tag-1", tag.ID)
}

func TestReviewRejectedTagGetsRejectedStatus(t *testing.T) {
	repo := &fakeFaceTagRepo{
		affected: 1,
		tags: map[string]*models.VideoFaceTag{
			"tag-1": {ID: "tag-1", Status: models.FaceTagRejected},
		},
	}
	svc := newFaceTagServiceForTest(repo, nil)

	_, err := svc.Review(context.Background(), "tag-1", "admin@example.com", ReviewRequest{Approve: false})
	require.NoError(t, err)
	assert.Equal(t, models.FaceTagRejected, repo.status)
}

func TestReviewAlreadyReviewed(t *testing.T) {
	repo := &fakeFaceTagRepo{
		affected: 0,
		tags: map[string]*models.VideoFaceTag{
			"tag-1": {ID: "tag-1", Status: models.FaceTagApproved},
		},
	}
	svc := newFaceTagServiceForTest(repo, nil)

	_, err := svc.Review(context.Background(), "tag-1", "admin@example.com", ReviewRequest{Approve: true})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrAlreadyReviewed.Code, appErr.Code)
}

func TestReviewUnknownTag(t *testing.T) {
	repo := &fakeFaceTagRepo{affected: 0, tags: map[string]*models.VideoFaceTag{}}
	svc := newFaceTagServiceForTest(repo, nil)

	_, err := svc.Review(context.Background(), "missing", "admin@example.com", ReviewRequest{Approve: true})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEnqueueAnalysisWithoutAnalyzer(t *testing.T) {
	svc := newFaceTagServiceForTest(&fakeFaceTagRepo{}, nil)

	err := svc.EnqueueAnalysis("v-1")
	require.Error(t, err)
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, videoID string) ([]models.VideoFaceTag, error) {
	return []models.VideoFaceTag{{ChildID: "c-1", Confidence: 0.92}}, nil
}

func TestEnqueueSchoolAnalysisCountsQueuedVideos(t *testing.T) {
	repo := &fakeFaceTagRepo{videoIDs: []string{"v-1", "v-2", "v-3"}}
	svc := newFaceTagServiceForTest(repo, stubAnalyzer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	queued, err := svc.EnqueueSchoolAnalysis(ctx, "school-1")
	require.NoError(t, err)
	assert.Equal(t, 3, queued)
}

package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
)

type fakeVideoRepo struct {
	videos  map[string]*models.Video
	deleted []string
}

func (f *fakeVideoRepo) List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int, error) {
	return nil, 0, nil
}

func (f *fakeVideoRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	if v, ok := f.videos[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVideoRepo) Create(ctx context.Context, video *models.Video) error {
	video.ID = "v-new"
	return nil
}

func (f *fakeVideoRepo) Update(ctx context.Context, video *models.Video) error {
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoRepo) DeleteWithDependents(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.videos, id)
	return nil
}

type fakeMediaStore struct {
	deletedKeys []string
}

func (f *fakeMediaStore) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	return "https://upload.example.com/" + key, time.Now().Add(15 * time.Minute), nil
}

func (f *fakeMediaStore) PresignDownload(ctx context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

type recordingNotifier struct {
	schoolIDs []string
	titles    []string
}

func (r *recordingNotifier) NotifySchool(schoolID, title, body string) {
	r.schoolIDs = append(r.schoolIDs, schoolID)
	r.titles = append(r.titles, body)
}

func newVideoServiceForTest(repo *fakeVideoRepo, media videoMediaStore, notifier videoNotifier) *VideoService {
	return NewVideoService(repo, media, notifier, validator.New(), zap.NewNop())
}

func TestPublishNotifiesSchoolOnce(t *testing.T) {
	repo := &fakeVideoRepo{videos: map[string]*models.Video{
		"v-1": {ID: "v-1", SchoolID: "school-1", Title: "Sports day", StorageKey: "videos/school-1/v-1.mp4"},
	}}
	notifier := &recordingNotifier{}
	svc := newVideoServiceForTest(repo, nil, notifier)

	video, err := svc.Publish(context.Background(), "v-1")
	require.NoError(t, err)
	require.NotNil(t, video.PublishedAt)
	require.Len(t, notifier.schoolIDs, 1)
	assert.Equal(t, "school-1", notifier.schoolIDs[0])
	assert.Equal(t, "Sports day", notifier.titles[0])

	// Publishing again must not re-notify.
	_, err = svc.Publish(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Len(t, notifier.schoolIDs, 1)
}

func TestUpdateKeepsStorageKeyAndSchool(t *testing.T) {
	repo := &fakeVideoRepo{videos: map[string]*models.Video{
		"v-1": {ID: "v-1", SchoolID: "school-1", Title: "Old", StorageKey: "videos/school-1/v-1.mp4"},
	}}
	svc := newVideoServiceForTest(repo, nil, nil)

	updated, err := svc.Update(context.Background(), "v-1", VideoRequest{
		SchoolID:   "11111111-2222-4333-8444-555555555555",
		Title:      "New title",
		StorageKey: "videos/elsewhere/other.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "school-1", updated.SchoolID)
	assert.Equal(t, "videos/school-1/v-1.mp4", updated.StorageKey)
}

func TestDeleteRemovesStoredObjects(t *testing.T) {
	thumb := "thumbnails/school-1/v-1.jpg"
	repo := &fakeVideoRepo{videos: map[string]*models.Video{
		"v-1": {ID: "v-1", SchoolID: "school-1", StorageKey: "videos/school-1/v-1.mp4", ThumbnailKey: &thumb},
	}}
	media := &fakeMediaStore{}
	svc := newVideoServiceForTest(repo, media, nil)

	require.NoError(t, svc.Delete(context.Background(), "v-1"))
	assert.Equal(t, []string{"v-1"}, repo.deleted)
	assert.ElementsMatch(t, []string{"videos/school-1/v-1.mp4", thumb}, media.deletedKeys)
}

func TestDeleteUnknownVideo(t *testing.T) {
	svc := newVideoServiceForTest(&fakeVideoRepo{videos: map[string]*models.Video{}}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
}

func TestPresignUploadBuildsVideoKey(t *testing.T) {
	svc := newVideoServiceForTest(&fakeVideoRepo{}, &fakeMediaStore{}, nil)

	resp, err := svc.PresignUpload(context.Background(), PresignUploadRequest{
		SchoolID:    "11111111-2222-4333-8444-555555555555",
		Kind:        "video",
		ContentType: "video/mp4",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.StorageKey, "videos/11111111-2222-4333-8444-555555555555/"))
	assert.Contains(t, resp.UploadURL, resp.StorageKey)
}

func TestPresignUploadRejectsContentType(t *testing.T) {
	svc := newVideoServiceForTest(&fakeVideoRepo{}, &fakeMediaStore{}, nil)

	_, err := svc.PresignUpload(context.Background(), PresignUploadRequest{
		SchoolID:    "11111111-2222-4333-8444-555555555555",
		Kind:        "video",
		ContentType: "application/zip",
	})
	require.Error(t, err)
}

func TestListDefaultsPaging(t *testing.T) {
	svc := newVideoServiceForTest(&fakeVideoRepo{}, nil, nil)

	videos, page, err := svc.List(context.Background(), models.VideoFilter{Page: -1, PageSize: 500})
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
)

const trackedSponsorID = "8c1b7e2a-5d4f-4c3b-9a2e-1f0d9c8b7a6e"

type fakeSponsorEventRepo struct {
	events []*models.SponsorEvent
}

func (f *fakeSponsorEventRepo) ListActiveForSchool(ctx context.Context, schoolID string) ([]models.Sponsor, error) {
	return nil, nil
}

func (f *fakeSponsorEventRepo) List(ctx context.Context) ([]models.Sponsor, error) {
	return nil, nil
}

func (f *fakeSponsorEventRepo) GetByID(ctx context.Context, id string) (*models.Sponsor, error) {
	return nil, nil
}

func (f *fakeSponsorEventRepo) Create(ctx context.Context, sponsor *models.Sponsor) error { return nil }

func (f *fakeSponsorEventRepo) Update(ctx context.Context, sponsor *models.Sponsor) error { return nil }

func (f *fakeSponsorEventRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeSponsorEventRepo) InsertEvent(ctx context.Context, event *models.SponsorEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeSponsorEventRepo) PerformanceReport(ctx context.Context, from, to time.Time) ([]models.SponsorPerformance, error) {
	return nil, nil
}

func newSponsorRouter(repo *fakeSponsorEventRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSponsorHandler(service.NewSponsorService(repo, nil, nil, validator.New(), zap.NewNop()))

	r := gin.New()
	r.POST("/sponsors/:id/track", h.Track)
	return r
}

func TestTrackReadsSponsorFromPath(t *testing.T) {
	repo := &fakeSponsorEventRepo{}
	r := newSponsorRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sponsors/"+trackedSponsorID+"/track", strings.NewReader(`{"type":"click"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, repo.events, 1)
	assert.Equal(t, trackedSponsorID, repo.events[0].SponsorID)
	assert.Equal(t, models.SponsorEventClick, repo.events[0].EventType)
}

func TestTrackRejectsMalformedSponsorID(t *testing.T) {
	repo := &fakeSponsorEventRepo{}
	r := newSponsorRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sponsors/not-a-uuid/track", strings.NewReader(`{"type":"click"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.events)
}

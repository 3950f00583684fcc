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

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
)

const trackedVideoID = "3e0e9b5a-1f2d-4a4b-8f5f-0f9d1c2b3a4e"

type fakeTrackingRepo struct {
	views     []*models.VideoView
	reactions []*models.ReactionLog
	events    []*models.AnalyticsEvent
	failAll   bool
}

func (f *fakeTrackingRepo) InsertView(ctx context.Context, view *models.VideoView) error {
	if f.failAll {
		return assert.AnError
	}
	f.views = append(f.views, view)
	return nil
}

func (f *fakeTrackingRepo) InsertReaction(ctx context.Context, reaction *models.ReactionLog) error {
	if f.failAll {
		return assert.AnError
	}
	f.reactions = append(f.reactions, reaction)
	return nil
}

func (f *fakeTrackingRepo) InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	if f.failAll {
		return assert.AnError
	}
	f.events = append(f.events, event)
	return nil
}

func newTrackingRouter(repo *fakeTrackingRepo, claims *models.SessionClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTrackingHandler(service.NewTrackingService(repo, validator.New(), zap.NewNop()))

	r := gin.New()
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextSessionKey, claims)
			c.Next()
		})
	}
	r.POST("/videos/:id/view", h.RecordView)
	r.POST("/videos/:id/reactions", h.RecordReaction)
	r.POST("/analytics/events", h.RecordEvent)
	return r
}

func TestRecordViewWithoutSession(t *testing.T) {
	repo := &fakeTrackingRepo{}
	r := newTrackingRouter(repo, nil)

	body := `{"watched_seconds":42}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos/"+trackedVideoID+"/view", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, repo.views, 1)
	assert.Nil(t, repo.views[0].GuardianID, "anonymous views carry no guardian")
	assert.Equal(t, trackedVideoID, repo.views[0].VideoID)
}

func TestRecordViewBadPayload(t *testing.T) {
	r := newTrackingRouter(&fakeTrackingRepo{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos/"+trackedVideoID+"/view", strings.NewReader(`{"watched_seconds":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordReactionRequiresGuardian(t *testing.T) {
	r := newTrackingRouter(&fakeTrackingRepo{}, nil)

	body := `{"reaction_type":"like"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos/"+trackedVideoID+"/reactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecordReactionWithGuardianSession(t *testing.T) {
	repo := &fakeTrackingRepo{}
	claims := &models.SessionClaims{Role: models.RoleGuardian, GuardianID: "g-1"}
	r := newTrackingRouter(repo, claims)

	body := `{"reaction_type":"like"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/videos/"+trackedVideoID+"/reactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, repo.reactions, 1)
	assert.Equal(t, "g-1", repo.reactions[0].GuardianID)
}

func TestRecordEventAlwaysSucceeds(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"valid", `{"event_type":"app_open","payload":{"screen":"home"}}`},
		{"malformed json", `{"event_type":`},
		{"missing event type", `{"payload":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTrackingRouter(&fakeTrackingRepo{}, nil)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/analytics/events", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRecordEventSwallowsStorageFailure(t *testing.T) {
	repo := &fakeTrackingRepo{failAll: true}
	r := newTrackingRouter(repo, nil)

	body := `{"event_type":"app_open"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analytics/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestViewRouteAllowsAnonymousPlayers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeTrackingRepo{}
	auth := service.NewAuthService(nil, nil, nil, nil, nil, zap.NewNop(), service.AuthConfig{
		Secret:     "route-test-secret",
		Expiration: time.Hour,
	})
	h := Handlers{Tracking: NewTrackingHandler(service.NewTrackingService(repo, validator.New(), zap.NewNop()))}
	r := gin.New()
	RegisterRoutes(r, "/api/v1", auth, h)

	body := `{"watched_seconds":12}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+trackedVideoID+"/view", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, repo.views, 1)
	assert.Nil(t, repo.views[0].GuardianID)
}

package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sodachi-biyori/sodachi-api/pkg/storage"
)

type fakeMediaStreamer struct {
	objects  map[string]string
	failWith error
}

func (f *fakeMediaStreamer) Stream(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if f.failWith != nil {
		return nil, "", f.failWith
	}
	if body, ok := f.objects[key]; ok {
		return io.NopCloser(strings.NewReader(body)), "image/jpeg", nil
	}
	return nil, "", fmt.Errorf("stream %s: %w", key, storage.ErrObjectNotFound)
}

func newMediaRouter(store *fakeMediaStreamer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMediaHandler(store, nil)
	r.GET("/media/images/*key", h.Image)
	return r
}

func TestImageStreamsWithImmutableCache(t *testing.T) {
	store := &fakeMediaStreamer{objects: map[string]string{
		"thumbnails/school-1/v-1.jpg": "jpeg-bytes",
	}}
	r := newMediaRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/images/thumbnails/school-1/v-1.jpg", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
}

func TestImageMissingObject(t *testing.T) {
	r := newMediaRouter(&fakeMediaStreamer{objects: map[string]string{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/images/thumbnails/nope.jpg", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageRejectsTraversal(t *testing.T) {
	r := newMediaRouter(&fakeMediaStreamer{objects: map[string]string{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/media/images/thumbnails/..%2Fsecrets", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageStorageFailureIsNotFourOhFour(t *testing.T) {
	r := newMediaRouter(&fakeMediaStreamer{failWith: assert.AnError})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/images/thumbnails/v-1.jpg", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

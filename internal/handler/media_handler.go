package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
	"github.com/sodachi-biyori/sodachi-api/pkg/storage"
)

type mediaStreamer interface {
	Stream(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// MediaHandler proxies stored images through the API so clients never
// see raw storage URLs.
type MediaHandler struct {
	store  mediaStreamer
	logger *zap.Logger
}

// NewMediaHandler creates a new handler.
func NewMediaHandler(store mediaStreamer, logger *zap.Logger) *MediaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaHandler{store: store, logger: logger}
}

// Image godoc
// @Summary Stream an image
// @Description Proxy a stored image by object key
// @Tags Media
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /media/images/{key} [get]
func (h *MediaHandler) Image(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "image not found"))
		return
	}

	body, contentType, err := h.store.Stream(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "image not found"))
			return
		}
		h.logger.Error("image stream failed", zap.String("key", key), zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load image"))
		return
	}
	defer body.Close()

	// Object keys are immutable, so clients can cache aggressively.
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("image stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// TrackingHandler ingests playback, reaction and telemetry records.
type TrackingHandler struct {
	service *service.TrackingService
}

// NewTrackingHandler creates a new handler.
func NewTrackingHandler(svc *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: svc}
}

// RecordView godoc
// @Summary Record a video view
// @Description Append a playback record for the current session
// @Tags Tracking
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param payload body service.ViewRequest true "View payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /videos/{id}/view [post]
func (h *TrackingHandler) RecordView(c *gin.Context) {
	var req service.ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid view payload"))
		return
	}
	req.VideoID = c.Param("id")

	guardianID := ""
	if claims, ok := middleware.Session(c); ok {
		guardianID = claims.GuardianID
	}
	if err := h.service.RecordView(c.Request.Context(), guardianID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"status": "recorded"})
}

// RecordReaction godoc
// @Summary Record a reaction
// @Description Append a guardian reaction on a video
// @Tags Tracking
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param payload body service.ReactionRequest true "Reaction payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /videos/{id}/reactions [post]
func (h *TrackingHandler) RecordReaction(c *gin.Context) {
	var req service.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reaction payload"))
		return
	}
	req.VideoID = c.Param("id")

	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.RecordReaction(c.Request.Context(), claims.GuardianID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"status": "recorded"})
}

// RecordEvent godoc
// @Summary Record a telemetry event
// @Description Append free-form client telemetry; this endpoint never fails the caller
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body service.AnalyticsEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /analytics/events [post]
func (h *TrackingHandler) RecordEvent(c *gin.Context) {
	var req service.AnalyticsEventRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		h.service.RecordEvent(c.Request.Context(), req)
	}
	// Telemetry is best-effort: malformed or failed events still get 200.
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"}, nil)
}

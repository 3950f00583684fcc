package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// SponsorHandler serves the public sponsor banner and tracking endpoints.
type SponsorHandler struct {
	service *service.SponsorService
}

// NewSponsorHandler creates a new handler.
func NewSponsorHandler(svc *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{service: svc}
}

// Banners godoc
// @Summary List sponsor banners
// @Description Active sponsor banners for a school with its display mode
// @Tags Sponsors
// @Produce json
// @Param slug path string true "School slug"
// @Success 200 {object} response.Envelope
// @Router /schools/{slug}/sponsors [get]
func (h *SponsorHandler) Banners(c *gin.Context) {
	banners, err := h.service.ListBanners(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, banners, nil)
}

// Track godoc
// @Summary Record a sponsor interaction
// @Description Append an impression, click or support event for a sponsor
// @Tags Sponsors
// @Accept json
// @Produce json
// @Param id path string true "Sponsor ID"
// @Param payload body service.TrackEventRequest true "Event payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sponsors/{id}/track [post]
func (h *SponsorHandler) Track(c *gin.Context) {
	var req service.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid track payload"))
		return
	}
	req.SponsorID = c.Param("id")

	if err := h.service.Track(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"status": "recorded"})
}

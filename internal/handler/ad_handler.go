package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/service"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// AdHandler serves ad selection for the public player endpoints.
type AdHandler struct {
	service *service.AdService
}

// NewAdHandler creates a new handler.
func NewAdHandler(svc *service.AdService) *AdHandler {
	return &AdHandler{service: svc}
}

// Preroll godoc
// @Summary Select a preroll ad
// @Description Pick one preroll ad for a school, or null when none apply
// @Tags Ads
// @Produce json
// @Param slug path string true "School slug"
// @Success 200 {object} response.Envelope
// @Router /schools/{slug}/ads/preroll [get]
func (h *AdHandler) Preroll(c *gin.Context) {
	ad, err := h.service.SelectPreroll(c.Request.Context(), c.Param("slug"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// Midrolls godoc
// @Summary List eligible midroll ads
// @Description All eligible midroll ads for a school, highest priority first
// @Tags Ads
// @Produce json
// @Param slug path string true "School slug"
// @Success 200 {object} response.Envelope
// @Router /schools/{slug}/ads/midroll [get]
func (h *AdHandler) Midrolls(c *gin.Context) {
	ads, err := h.service.ListMidrolls(c.Request.Context(), c.Param("slug"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ads, nil)
}

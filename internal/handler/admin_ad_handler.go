package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// AdminAdHandler backs the preroll and midroll ad admin console.
type AdminAdHandler struct {
	service *service.AdAdminService
}

// NewAdminAdHandler creates a new handler.
func NewAdminAdHandler(svc *service.AdAdminService) *AdminAdHandler {
	return &AdminAdHandler{service: svc}
}

// ListPrerolls godoc
// @Summary List preroll ads
// @Tags Admin/Ads
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/preroll-ads [get]
func (h *AdminAdHandler) ListPrerolls(c *gin.Context) {
	ads, err := h.service.ListPrerolls(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ads, nil)
}

// CreatePreroll godoc
// @Summary Create a preroll ad
// @Tags Admin/Ads
// @Accept json
// @Produce json
// @Param payload body service.PrerollRequest true "Ad payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/preroll-ads [post]
func (h *AdminAdHandler) CreatePreroll(c *gin.Context) {
	var req service.PrerollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preroll payload"))
		return
	}
	ad, err := h.service.CreatePreroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ad)
}

// UpdatePreroll godoc
// @Summary Update a preroll ad
// @Tags Admin/Ads
// @Accept json
// @Produce json
// @Param id path string true "Ad ID"
// @Param payload body service.PrerollRequest true "Ad payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/preroll-ads/{id} [put]
func (h *AdminAdHandler) UpdatePreroll(c *gin.Context) {
	var req service.PrerollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preroll payload"))
		return
	}
	ad, err := h.service.UpdatePreroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// DeletePreroll godoc
// @Summary Delete a preroll ad
// @Tags Admin/Ads
// @Param id path string true "Ad ID"
// @Success 204 "No Content"
// @Router /admin/preroll-ads/{id} [delete]
func (h *AdminAdHandler) DeletePreroll(c *gin.Context) {
	if err := h.service.DeletePreroll(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMidrolls godoc
// @Summary List midroll ads
// @Tags Admin/Ads
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/midroll-ads [get]
func (h *AdminAdHandler) ListMidrolls(c *gin.Context) {
	ads, err := h.service.ListMidrolls(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ads, nil)
}

// CreateMidroll godoc
// @Summary Create a midroll ad
// @Tags Admin/Ads
// @Accept json
// @Produce json
// @Param payload body service.MidrollRequest true "Ad payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/midroll-ads [post]
func (h *AdminAdHandler) CreateMidroll(c *gin.Context) {
	var req service.MidrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid midroll payload"))
		return
	}
	ad, err := h.service.CreateMidroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ad)
}

// UpdateMidroll godoc
// @Summary Update a midroll ad
// @Tags Admin/Ads
// @Accept json
// @Produce json
// @Param id path string true "Ad ID"
// @Param payload body service.MidrollRequest true "Ad payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/midroll-ads/{id} [put]
func (h *AdminAdHandler) UpdateMidroll(c *gin.Context) {
	var req service.MidrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid midroll payload"))
		return
	}
	ad, err := h.service.UpdateMidroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// DeleteMidroll godoc
// @Summary Delete a midroll ad
// @Tags Admin/Ads
// @Param id path string true "Ad ID"
// @Success 204 "No Content"
// @Router /admin/midroll-ads/{id} [delete]
func (h *AdminAdHandler) DeleteMidroll(c *gin.Context) {
	if err := h.service.DeleteMidroll(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

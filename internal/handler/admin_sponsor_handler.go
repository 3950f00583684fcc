package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// AdminSponsorHandler backs the sponsor admin console.
type AdminSponsorHandler struct {
	service *service.SponsorService
}

// NewAdminSponsorHandler creates a new handler.
func NewAdminSponsorHandler(svc *service.SponsorService) *AdminSponsorHandler {
	return &AdminSponsorHandler{service: svc}
}

// List godoc
// @Summary List sponsors
// @Tags Admin/Sponsors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/sponsors [get]
func (h *AdminSponsorHandler) List(c *gin.Context) {
	sponsors, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsors, nil)
}

// Get godoc
// @Summary Get a sponsor
// @Tags Admin/Sponsors
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sponsors/{id} [get]
func (h *AdminSponsorHandler) Get(c *gin.Context) {
	sponsor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Create godoc
// @Summary Create a sponsor
// @Tags Admin/Sponsors
// @Accept json
// @Produce json
// @Param payload body service.SponsorRequest true "Sponsor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sponsors [post]
func (h *AdminSponsorHandler) Create(c *gin.Context) {
	var req service.SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sponsor payload"))
		return
	}
	sponsor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sponsor)
}

// Update godoc
// @Summary Update a sponsor
// @Tags Admin/Sponsors
// @Accept json
// @Produce json
// @Param id path string true "Sponsor ID"
// @Param payload body service.SponsorRequest true "Sponsor payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sponsors/{id} [put]
func (h *AdminSponsorHandler) Update(c *gin.Context) {
	var req service.SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sponsor payload"))
		return
	}
	sponsor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Delete godoc
// @Summary Delete a sponsor
// @Tags Admin/Sponsors
// @Param id path string true "Sponsor ID"
// @Success 204 "No Content"
// @Router /admin/sponsors/{id} [delete]
func (h *AdminSponsorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// StampHandler serves the guardian login stamp card.
type StampHandler struct {
	service *service.StampService
}

// NewStampHandler creates a new handler.
func NewStampHandler(svc *service.StampService) *StampHandler {
	return &StampHandler{service: svc}
}

// Record godoc
// @Summary Stamp today's login
// @Description Record today's login stamp; repeated calls on the same day are no-ops
// @Tags Stamps
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/stamp [post]
func (h *StampHandler) Record(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.RecordLogin(c.Request.Context(), claims.GuardianID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Card godoc
// @Summary Get the stamp card
// @Description Stamps collected in a year, defaulting to the current year
// @Tags Stamps
// @Produce json
// @Param year query int false "Card year"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/stamp-card [get]
func (h *StampHandler) Card(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	year, _ := strconv.Atoi(c.Query("year"))
	result, err := h.service.Card(c.Request.Context(), claims.GuardianID, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

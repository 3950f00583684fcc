package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// GuardianMeHandler serves the logged-in guardian's own profile,
// children and device registrations.
type GuardianMeHandler struct {
	guardians     *service.GuardianService
	notifications *service.NotificationService
}

// NewGuardianMeHandler creates a new handler.
func NewGuardianMeHandler(guardians *service.GuardianService, notifications *service.NotificationService) *GuardianMeHandler {
	return &GuardianMeHandler{guardians: guardians, notifications: notifications}
}

// Profile godoc
// @Summary Get own profile
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *GuardianMeHandler) Profile(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	guardian, err := h.guardians.Get(c.Request.Context(), claims.GuardianID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}

// Children godoc
// @Summary List own children
// @Tags Me
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/children [get]
func (h *GuardianMeHandler) Children(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	children, err := h.guardians.ListChildren(c.Request.Context(), claims.GuardianID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, children, nil)
}

// RegisterDevice godoc
// @Summary Register a device token
// @Description Bind a push token to the current guardian
// @Tags Me
// @Accept json
// @Produce json
// @Param payload body service.RegisterTokenRequest true "Token payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/device-tokens [post]
func (h *GuardianMeHandler) RegisterDevice(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid device token payload"))
		return
	}
	if err := h.notifications.RegisterToken(c.Request.Context(), claims.GuardianID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"status": "registered"})
}

// UnregisterDevice godoc
// @Summary Remove a device token
// @Tags Me
// @Produce json
// @Param token path string true "Device token"
// @Success 204 "No Content"
// @Failure 401 {object} response.Envelope
// @Router /me/device-tokens/{token} [delete]
func (h *GuardianMeHandler) UnregisterDevice(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.notifications.UnregisterToken(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

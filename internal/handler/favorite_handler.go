package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// FavoriteHandler serves a guardian's favorite videos.
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler creates a new handler.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

type toggleFavoriteRequest struct {
	VideoID string `json:"video_id" binding:"required,uuid"`
}

// Toggle godoc
// @Summary Toggle a favorite
// @Description Flip the favorite state of a video for the current guardian
// @Tags Favorites
// @Accept json
// @Produce json
// @Param payload body toggleFavoriteRequest true "Favorite payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /favorites [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid favorite payload"))
		return
	}
	result, err := h.service.Toggle(c.Request.Context(), claims.GuardianID, req.VideoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List favorite videos
// @Description The current guardian's favorited videos, newest first
// @Tags Favorites
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.GuardianID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	videos, err := h.service.List(c.Request.Context(), claims.GuardianID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, nil)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// VideoHandler serves published videos to guardian and class sessions.
type VideoHandler struct {
	service *service.VideoService
}

// NewVideoHandler creates a new handler.
func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{service: svc}
}

// List godoc
// @Summary List published videos
// @Description Published videos visible to the current session, scoped to its school and class
// @Tags Videos
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.SchoolID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	filter := models.VideoFilter{
		SchoolID:      claims.SchoolID,
		PublishedOnly: true,
		Page:          page,
		PageSize:      pageSize,
	}
	if claims.Role == models.RoleParent {
		filter.ClassID = claims.ClassID
	}

	videos, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, pagination)
}

// Get godoc
// @Summary Get a video
// @Description A published video with short-lived playback URLs
// @Tags Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok || claims.SchoolID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if detail.SchoolID != claims.SchoolID || detail.PublishedAt == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "video not found"))
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

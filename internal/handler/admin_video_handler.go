package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// AdminVideoHandler backs the video admin console: CRUD, publishing,
// direct-to-storage uploads and face-analysis triggers.
type AdminVideoHandler struct {
	videos   *service.VideoService
	faceTags *service.FaceTagService
}

// NewAdminVideoHandler creates a new handler.
func NewAdminVideoHandler(videos *service.VideoService, faceTags *service.FaceTagService) *AdminVideoHandler {
	return &AdminVideoHandler{videos: videos, faceTags: faceTags}
}

// List godoc
// @Summary List videos
// @Tags Admin/Videos
// @Produce json
// @Param school_id query string false "School filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/videos [get]
func (h *AdminVideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	videos, pagination, err := h.videos.List(c.Request.Context(), models.VideoFilter{
		SchoolID: c.Query("school_id"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, pagination)
}

// Get godoc
// @Summary Get a video
// @Tags Admin/Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/videos/{id} [get]
func (h *AdminVideoHandler) Get(c *gin.Context) {
	detail, err := h.videos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Register a video
// @Description Register an uploaded video; it stays unpublished until published
// @Tags Admin/Videos
// @Accept json
// @Produce json
// @Param payload body service.VideoRequest true "Video payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/videos [post]
func (h *AdminVideoHandler) Create(c *gin.Context) {
	var req service.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid video payload"))
		return
	}
	video, err := h.videos.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, video)
}

// Update godoc
// @Summary Update a video
// @Tags Admin/Videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param payload body service.VideoRequest true "Video payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/videos/{id} [put]
func (h *AdminVideoHandler) Update(c *gin.Context) {
	var req service.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid video payload"))
		return
	}
	video, err := h.videos.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, video, nil)
}

// Publish godoc
// @Summary Publish a video
// @Description Make a video visible to guardians and notify their devices
// @Tags Admin/Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/videos/{id}/publish [post]
func (h *AdminVideoHandler) Publish(c *gin.Context) {
	video, err := h.videos.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, video, nil)
}

// Delete godoc
// @Summary Delete a video
// @Description Remove a video and all its dependent records in one transaction
// @Tags Admin/Videos
// @Param id path string true "Video ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/videos/{id} [delete]
func (h *AdminVideoHandler) Delete(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PresignUpload godoc
// @Summary Presign a direct upload
// @Description Issue a short-lived URL for uploading a video or thumbnail straight to storage
// @Tags Admin/Videos
// @Accept json
// @Produce json
// @Param payload body service.PresignUploadRequest true "Presign payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/uploads/presign [post]
func (h *AdminVideoHandler) PresignUpload(c *gin.Context) {
	var req service.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid presign payload"))
		return
	}
	res, err := h.videos.PresignUpload(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Analyze godoc
// @Summary Trigger face analysis for a video
// @Description Queue background face detection; results land in the review queue
// @Tags Admin/Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 202 {object} response.Envelope
// @Router /admin/videos/{id}/analyze [post]
func (h *AdminVideoHandler) Analyze(c *gin.Context) {
	if err := h.faceTags.EnqueueAnalysis(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"status": "queued"})
}

// AnalyzeSchool godoc
// @Summary Trigger face analysis for a whole school
// @Description Queue background face detection for every video of a school
// @Tags Admin/Videos
// @Produce json
// @Param id path string true "School ID"
// @Success 202 {object} response.Envelope
// @Router /admin/schools/{id}/analyze [post]
func (h *AdminVideoHandler) AnalyzeSchool(c *gin.Context) {
	queued, err := h.faceTags.EnqueueSchoolAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"status": "queued", "videos": queued})
}

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

// AdminFaceTagHandler backs the face-tag review queue.
type AdminFaceTagHandler struct {
	service *service.FaceTagService
}

// NewAdminFaceTagHandler creates a new handler.
func NewAdminFaceTagHandler(svc *service.FaceTagService) *AdminFaceTagHandler {
	return &AdminFaceTagHandler{service: svc}
}

// ListPending godoc
// @Summary List pending face tags
// @Description The oldest detected face tags awaiting review
// @Tags Admin/FaceTags
// @Produce json
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /admin/face-tags [get]
func (h *AdminFaceTagHandler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tags, err := h.service.ListPending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tags, nil)
}

// Review godoc
// @Summary Review a face tag
// @Description Approve or reject a pending tag; a reviewed tag cannot be reviewed again
// @Tags Admin/FaceTags
// @Accept json
// @Produce json
// @Param id path string true "Face tag ID"
// @Param payload body service.ReviewRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/face-tags/{id}/review [post]
func (h *AdminFaceTagHandler) Review(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	reviewer := ""
	if claims, ok := middleware.Session(c); ok {
		reviewer = claims.Subject
	}
	tag, err := h.service.Review(c.Request.Context(), c.Param("id"), reviewer, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tag, nil)
}

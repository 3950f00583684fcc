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

// AdminGuardianHandler backs the guardian account admin console.
type AdminGuardianHandler struct {
	service *service.GuardianService
}

// NewAdminGuardianHandler creates a new handler.
func NewAdminGuardianHandler(svc *service.GuardianService) *AdminGuardianHandler {
	return &AdminGuardianHandler{service: svc}
}

// List godoc
// @Summary List guardians
// @Tags Admin/Guardians
// @Produce json
// @Param school_id query string false "School filter"
// @Param search query string false "Name or email search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/guardians [get]
func (h *AdminGuardianHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	guardians, pagination, err := h.service.List(c.Request.Context(), models.GuardianFilter{
		SchoolID: c.Query("school_id"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardians, pagination)
}

// Get godoc
// @Summary Get a guardian
// @Tags Admin/Guardians
// @Produce json
// @Param id path string true "Guardian ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/guardians/{id} [get]
func (h *AdminGuardianHandler) Get(c *gin.Context) {
	guardian, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}

// Create godoc
// @Summary Create a guardian
// @Tags Admin/Guardians
// @Accept json
// @Produce json
// @Param payload body service.GuardianCreateRequest true "Guardian payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/guardians [post]
func (h *AdminGuardianHandler) Create(c *gin.Context) {
	var req service.GuardianCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guardian payload"))
		return
	}
	guardian, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guardian)
}

// Update godoc
// @Summary Update a guardian
// @Tags Admin/Guardians
// @Accept json
// @Produce json
// @Param id path string true "Guardian ID"
// @Param payload body service.GuardianUpdateRequest true "Guardian payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/guardians/{id} [put]
func (h *AdminGuardianHandler) Update(c *gin.Context) {
	var req service.GuardianUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guardian payload"))
		return
	}
	guardian, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}

// Delete godoc
// @Summary Delete a guardian
// @Tags Admin/Guardians
// @Param id path string true "Guardian ID"
// @Success 204 "No Content"
// @Router /admin/guardians/{id} [delete]
func (h *AdminGuardianHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListChildren godoc
// @Summary List a guardian's children
// @Tags Admin/Guardians
// @Produce json
// @Param id path string true "Guardian ID"
// @Success 200 {object} response.Envelope
// @Router /admin/guardians/{id}/children [get]
func (h *AdminGuardianHandler) ListChildren(c *gin.Context) {
	children, err := h.service.ListChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, children, nil)
}

// AddChild godoc
// @Summary Link a child to a guardian
// @Tags Admin/Guardians
// @Accept json
// @Produce json
// @Param id path string true "Guardian ID"
// @Param payload body service.ChildRequest true "Child payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/guardians/{id}/children [post]
func (h *AdminGuardianHandler) AddChild(c *gin.Context) {
	var req service.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid child payload"))
		return
	}
	child, err := h.service.AddChild(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, child)
}

// RemoveChild godoc
// @Summary Unlink a child
// @Tags Admin/Guardians
// @Param childId path string true "Child ID"
// @Success 204 "No Content"
// @Router /admin/children/{childId} [delete]
func (h *AdminGuardianHandler) RemoveChild(c *gin.Context) {
	if err := h.service.RemoveChild(c.Request.Context(), c.Param("childId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// ApplicationHandler exposes the applicant-facing intake endpoints and the
// admin review queue.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Get godoc
// @Summary Fetch the caller's application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applications/me [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	app, err := h.applications.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// SaveDraft godoc
// @Summary Create or update the caller's draft application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SaveApplicationRequest true "Application fields"
// @Success 200 {object} response.Envelope
// @Router /applications/me [put]
func (h *ApplicationHandler) SaveDraft(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req service.SaveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.UserID = claims.UserID

	app, err := h.applications.SaveDraft(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Submit godoc
// @Summary Submit the caller's draft for review
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applications/me/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// List godoc
// @Summary List applications in the review queue
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	var req service.ApplicationListRequest
	req.Status = models.ApplicationStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		req.PageSize = size
	}

	apps, pagination, err := h.applications.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, pagination)
}

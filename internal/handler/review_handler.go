package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// ReviewHandler exposes the admin decision endpoint for applications.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Review godoc
// @Summary Approve or reject an application
// @Description Approval provisions the creator profile and the current month's
// @Description tracking in the same request. Re-approving an already approved
// @Description application reuses the existing tracking.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Applicant user ID"
// @Param payload body service.ReviewApplicationRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /admin/applications/{id}/review [post]
func (h *ReviewHandler) Review(c *gin.Context) {
	var req service.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.UserID = c.Param("id")

	result, err := h.reviews.Review(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

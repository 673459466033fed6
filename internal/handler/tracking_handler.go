package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// TrackingHandler exposes monthly tracking endpoints.
type TrackingHandler struct {
	trackings *service.TrackingService
}

// NewTrackingHandler constructs TrackingHandler.
func NewTrackingHandler(trackings *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackings: trackings}
}

// Get godoc
// @Summary Get a monthly tracking
// @Tags Trackings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tracking ID"
// @Success 200 {object} response.Envelope
// @Router /trackings/{id} [get]
func (h *TrackingHandler) Get(c *gin.Context) {
	tracking, err := h.trackings.Get(c.Request.Context(), c.Param("id"), scopedCreatorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tracking, nil)
}

// ListByCreator godoc
// @Summary List trackings for a creator
// @Tags Trackings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Creator ID"
// @Success 200 {object} response.Envelope
// @Router /creators/{id}/trackings [get]
func (h *TrackingHandler) ListByCreator(c *gin.Context) {
	trackings, err := h.trackings.ListByCreator(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trackings, nil)
}

// MarkPaid godoc
// @Summary Mark a tracking's payout as paid
// @Tags Trackings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tracking ID"
// @Success 200 {object} response.Envelope
// @Router /admin/trackings/{id}/paid [post]
func (h *TrackingHandler) MarkPaid(c *gin.Context) {
	tracking, err := h.trackings.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tracking, nil)
}

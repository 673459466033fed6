package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// DashboardHandler exposes the creator dashboard endpoint.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Overview godoc
// @Summary Creator dashboard for a month
// @Description Combines the tracking, the payout breakdown and the progress
// @Description summary. Defaults to the current month when none is given.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Creator ID"
// @Param month query string false "Month as YYYY-MM"
// @Success 200 {object} response.Envelope
// @Router /creators/{id}/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	dashboard, err := h.dashboards.CreatorOverview(c.Request.Context(), c.Param("id"), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// VideoHandler exposes video asset intake and review endpoints.
type VideoHandler struct {
	videos *service.VideoService
}

// NewVideoHandler constructs VideoHandler.
func NewVideoHandler(videos *service.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Upload godoc
// @Summary Register an uploaded video against a tracking
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UploadVideoRequest true "Video metadata"
// @Success 201 {object} response.Envelope
// @Router /videos [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	var req service.UploadVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.CallerCreatorID = scopedCreatorID(c)

	asset, err := h.videos.Upload(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

// ListByTracking godoc
// @Summary List video assets of a tracking
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tracking ID"
// @Success 200 {object} response.Envelope
// @Router /trackings/{id}/videos [get]
func (h *VideoHandler) ListByTracking(c *gin.Context) {
	assets, err := h.videos.ListByTracking(c.Request.Context(), c.Param("id"), scopedCreatorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, nil)
}

// Review godoc
// @Summary Approve or reject a video asset
// @Description A verdict triggers a recount of the parent tracking's delivered
// @Description counts from approved assets.
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Param payload body service.ReviewVideoRequest true "Verdict"
// @Success 200 {object} response.Envelope
// @Router /admin/videos/{id}/review [post]
func (h *VideoHandler) Review(c *gin.Context) {
	var req service.ReviewVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.AssetID = c.Param("id")

	asset, err := h.videos.Review(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

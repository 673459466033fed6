package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// ExportHandler exposes payout statement downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Statement godoc
// @Summary Download a payout statement
// @Tags Exports
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Tracking ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /trackings/{id}/statement [get]
func (h *ExportHandler) Statement(c *gin.Context) {
	format := service.StatementFormat(c.DefaultQuery("format", "csv"))

	statement, err := h.exports.Statement(c.Request.Context(), c.Param("id"), scopedCreatorID(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", statement.FileName))
	c.Data(200, statement.ContentType, statement.Content)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// CatalogHandler exposes the read-only program catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListPackages godoc
// @Summary List package tiers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	packages, err := h.catalog.ListPackages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, packages, nil)
}

// ListMixes godoc
// @Summary List mix definitions with validity annotations
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/mixes [get]
func (h *CatalogHandler) ListMixes(c *gin.Context) {
	mixes, err := h.catalog.ListMixes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mixes, nil)
}

// ListRates godoc
// @Summary List per-type video rates
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/rates [get]
func (h *CatalogHandler) ListRates(c *gin.Context) {
	rates, err := h.catalog.ListRates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rates, nil)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/middleware"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// requireClaims extracts the authenticated user's claims from the context.
// When no valid claims are present it writes a 401 response and reports
// false, so callers can just return.
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

// scopedCreatorID returns the caller's creators-table id as resolved by the
// CreatorScope middleware. Admin callers are unscoped and get the empty
// string, which services treat as unrestricted access.
func scopedCreatorID(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextCreatorKey)
	if !exists {
		return ""
	}
	creator, ok := value.(*models.Creator)
	if !ok || creator == nil {
		return ""
	}
	return creator.ID
}

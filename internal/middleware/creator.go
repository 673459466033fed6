package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/response"
)

// ContextCreatorKey is the gin context key storing the caller's creator row.
const ContextCreatorKey = "currentCreator"

// CreatorResolver loads a creator by its owning user identity.
type CreatorResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.Creator, error)
}

// CreatorScope resolves the caller's creator profile from the token subject
// and stores it in the context. Tokens carry the users-table id while
// trackings and dashboards are keyed by the creators-table id, so every
// creator-owned route needs this translation. Admin callers stay unscoped.
func CreatorScope(resolver CreatorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok || claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}

		creator, err := resolver.FindByUserID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no provisioned creator profile"))
			} else {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve creator"))
			}
			c.Abort()
			return
		}

		c.Set(ContextCreatorKey, creator)
		c.Next()
	}
}

// CreatorOwner requires the :id path param to name the caller's own creator
// row. Admins, which CreatorScope leaves unscoped, pass for any id.
func CreatorOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextCreatorKey)
		if !exists {
			claimsValue, ok := c.Get(ContextUserKey)
			if !ok {
				response.Error(c, appErrors.ErrUnauthorized)
				c.Abort()
				return
			}
			claims, ok := claimsValue.(*models.JWTClaims)
			if !ok || claims == nil || claims.Role != models.RoleAdmin {
				response.Error(c, appErrors.ErrForbidden)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		creator, ok := value.(*models.Creator)
		if !ok || creator == nil || creator.ID != c.Param("id") {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// identityKey is the key used to store the authenticated identity in the context.
// Using a custom type prevents collisions.
const identityKey = contextKey("identity")

// GetIdentityFromContext retrieves the authenticated identity (email + role claim)
// from the Gin context. It returns the identity and a boolean indicating if it
// was found.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	identityVal, exists := c.Get(string(identityKey))
	if !exists {
		// check in the request context as well
		if v := c.Request.Context().Value(identityKey); v != nil {
			if identity, ok := v.(domain.Identity); ok {
				return identity, true
			}
		}
		return domain.Identity{}, false
	}

	identity, ok := identityVal.(domain.Identity)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return domain.Identity{}, false
	}

	return identity, true
}

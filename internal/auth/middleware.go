package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// ContextKeyUser is the gin context key the resolved user is stored under.
const ContextKeyUser = "auth_user"

// RequireAuth resolves the request's session to a live user record and
// attaches it to the context. Exactly one user read is performed per request
// so that sessions cannot outlive deleted accounts.
//
// Every failure mode (no cookie, expired or revoked session, user deleted)
// produces the same 401 response; nothing distinguishes them to the client.
func RequireAuth(service *Service, sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sm.ResolveUserID(c.Request)
		if userID == 0 {
			abortUnauthenticated(c)
			return
		}

		user, err := service.GetUserByID(userID)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole permits only callers whose resolved identity has one of the
// given roles. Must run after RequireAuth.
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !roleSet[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// IsOwner reports whether the resolved identity owns a resource recorded
// against ownerID. Callers must have established that the resource exists
// first, so missing resources surface as not-found rather than forbidden.
func IsOwner(user *entities.User, ownerID uint) bool {
	return user != nil && user.ID == ownerID
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "not authorized to access this route",
	})
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/realtime"
)

const (
	identityContextKey = "identity"
	tokenContextKey    = "token"
)

func IdentityFromContext(c *gin.Context) (realtime.Identity, bool) {
	value, ok := c.Get(identityContextKey)
	if !ok {
		return realtime.Identity{}, false
	}
	identity, ok := value.(realtime.Identity)
	return identity, ok && identity.UserID != ""
}

func TokenFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(tokenContextKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	return token, ok && token != ""
}

// RequireAuth admits requests carrying a bearer token that passes the
// same authenticator gate as WebSocket admission. Credential failures are
// uniform 401s; a store failure is a distinct 500.
func RequireAuth(gate *realtime.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		identity, err := gate.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, realtime.ErrInternal) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			}
			c.Abort()
			return
		}

		c.Set(identityContextKey, identity)
		c.Set(tokenContextKey, parts[1])
		c.Next()
	}
}

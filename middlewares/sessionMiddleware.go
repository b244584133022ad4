package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/mfgops_backend/config"
	"bitbucket.org/mmdatafocus/mfgops_backend/utils"
)

// SessionMiddleware resolves the session token header to a username via
// Redis and stashes both into the request context. Requests without a valid
// session are rejected.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		username, found, err := config.GetRedisValue("Token:" + token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, username)

		if parsed, err := utils.JwtValidate(token); err == nil && parsed.Valid {
			if claims, ok := parsed.Claims.(*utils.JwtCustomClaim); ok {
				ctx = utils.SetUserIdInContext(ctx, claims.ID)
				ctx = utils.SetIsAdminInContext(ctx, claims.Role == "Admin")
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

func equalSecret(given, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}

// RequireBasicAuth guards state-changing endpoints. When basic auth is not configured the
// endpoints are disabled altogether.
func RequireBasicAuth(s ServerSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.BasicAuthEnabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "State-changing endpoints are disabled, configure basic auth to enable them",
			})
			return
		}

		username, password, hasAuth := c.Request.BasicAuth()
		if !hasAuth || !equalSecret(username, s.BasicAuthUsername) || !equalSecret(password, s.BasicAuthPassword) {
			c.Header("WWW-Authenticate", `Basic realm="peerhive"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/auth"
)

const sessionKey = "session_id"

// RequireSession accepts a session token as "Bearer <token>" or bare in the
// Authorization header and stores its session id on the context.
func RequireSession(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(sessionKey, claims.SessionID)
		c.Next()
	}
}

// SessionID is the session set by RequireSession.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

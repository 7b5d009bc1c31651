package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireOperator guards the back-office routes with the X-API-KEY header.
// Browsers cannot set headers on websocket upgrades, so the key is also
// read from the api_key query parameter.
func RequireOperator(apiKey string) gin.HandlerFunc {
	want := []byte(apiKey)
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-KEY")
		if got == "" {
			got = c.Query("api_key")
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}

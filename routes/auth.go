package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/session", auth.CreateSession(d.Issuer, d.Log))
	}
}

package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/auth"
	"github.com/viduni-ubesekara/GreenLink-Project/cart"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/checkout"
	"github.com/viduni-ubesekara/GreenLink-Project/metrics"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/realtime"
	"github.com/viduni-ubesekara/GreenLink-Project/uploads"
)

// Deps is everything the handlers need.
type Deps struct {
	Log            *zap.Logger
	Issuer         *auth.Issuer
	OperatorAPIKey string
	Catalog        *catalog.Service
	Cart           *cart.Service
	Checkout       *checkout.Service
	Promotions     *promotion.Service
	Payments       *payment.Service
	Uploads        *uploads.Store
	Hub            *realtime.Hub
	// Ping reports storage health for /healthz.
	Ping func(ctx context.Context) error
}

// SetupRoutes is the single entry point that wires up the public, session
// and operator route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", healthz(d.Ping))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	SetupAuthRoutes(r, d)
	SetupShopRoutes(r, d)
	SetupCartRoutes(r, d)
	SetupAdminRoutes(r, d)
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

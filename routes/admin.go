package routes

import (
	"github.com/gin-gonic/gin"

	paymentcontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/payment"
	productcontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/product"
	promotioncontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/middleware"
)

// SetupAdminRoutes registers the back-office endpoints. Requires the
// operator API key.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	operator := middleware.RequireOperator(d.OperatorAPIKey)

	// ─────────── Inventory ───────────
	inventory := r.Group("/inventoryPanel", operator)
	{
		inventory.GET("", productcontroller.GetItems(d.Catalog))
		inventory.POST("", productcontroller.CreateItem(d.Catalog, d.Uploads))
		inventory.PUT("/:id", productcontroller.UpdateItem(d.Catalog, d.Uploads))
		inventory.DELETE("/:id", productcontroller.DeleteItem(d.Catalog))
		inventory.PATCH("/:id/promotion", productcontroller.SetItemPromotion(d.Catalog))
		inventory.GET("/low-stock", productcontroller.GetLowStock(d.Catalog))
		inventory.GET("/low-stock/export", productcontroller.ExportLowStock(d.Catalog))
		inventory.GET("/export", productcontroller.ExportItems(d.Catalog))
		inventory.POST("/import", productcontroller.ImportItems(d.Catalog, d.Log))
	}

	// ─────────── Promotions ───────────
	promotions := r.Group("/api/promotions", operator)
	{
		promotions.GET("", promotioncontroller.ListPromotions(d.Promotions))
		promotions.POST("", promotioncontroller.CreatePromotion(d.Promotions))
		promotions.GET("/stats", promotioncontroller.GetStats(d.Promotions))
		promotions.GET("/:id", promotioncontroller.GetPromotion(d.Promotions))
		promotions.PUT("/:id", promotioncontroller.UpdatePromotion(d.Promotions))
		promotions.DELETE("/:id", promotioncontroller.DeletePromotion(d.Promotions))
	}

	// ─────────── Payment review ───────────
	payments := r.Group("/api/payment", operator)
	{
		payments.GET("", paymentcontroller.ListPayments(d.Payments))
		payments.GET("/:id", paymentcontroller.GetPayment(d.Payments))
		payments.PUT("/:id/approve", paymentcontroller.ApprovePayment(d.Payments))
		payments.PUT("/:id/reject", paymentcontroller.RejectPayment(d.Payments))
		payments.DELETE("/:id", paymentcontroller.DeletePayment(d.Payments))
	}

	r.GET("/ws/payments", operator, d.Hub.ServeWS)
}

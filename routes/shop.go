package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/product"
	promotioncontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/promotion"
)

// SetupShopRoutes registers the public storefront endpoints.
func SetupShopRoutes(r *gin.Engine, d Deps) {
	shop := r.Group("/inventoryPanel")
	{
		shop.GET("/shop", productcontroller.GetItems(d.Catalog))
		shop.GET("/items/:id", productcontroller.GetItem(d.Catalog))
	}

	r.GET("/api/promotions/group", promotioncontroller.GetGroupPromotions(d.Promotions))
	r.GET("/api/userpromo/getpromotion/:code", promotioncontroller.RedeemPromotion(d.Promotions))
}

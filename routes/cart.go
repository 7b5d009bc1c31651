package routes

import (
	"github.com/gin-gonic/gin"

	cartcontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/cart"
	paymentcontroller "github.com/viduni-ubesekara/GreenLink-Project/controllers/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/middleware"
)

// SetupCartRoutes registers the endpoints that need a shopper session.
func SetupCartRoutes(r *gin.Engine, d Deps) {
	session := middleware.RequireSession(d.Issuer)

	cartGroup := r.Group("/cart", session)
	{
		cartGroup.GET("", cartcontroller.GetCart(d.Cart))
		cartGroup.POST("/add", cartcontroller.AddCartItem(d.Cart))
		cartGroup.PATCH("/increase/:id", cartcontroller.IncreaseCartItem(d.Cart))
		cartGroup.PATCH("/decrease/:id", cartcontroller.DecreaseCartItem(d.Cart))
		cartGroup.DELETE("/remove/:id", cartcontroller.DeleteCartItem(d.Cart))
		cartGroup.DELETE("/clear", cartcontroller.ClearCart(d.Cart))
		cartGroup.GET("/checkout", cartcontroller.GetCheckout(d.Checkout))
		cartGroup.GET("/receipt", cartcontroller.GetReceipt(d.Checkout))
	}

	r.POST("/api/payment", session, paymentcontroller.SubmitPayment(d.Checkout, d.Uploads))
}

// Package cartcontroller serves the session cart and checkout.
package cartcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/cart"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/middleware"
)

type CartItemInput struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity"`
}

// GET /cart
func GetCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := svc.Summary(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

// POST /cart/add
func AddCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}
		line, err := svc.Add(c.Request.Context(), middleware.SessionID(c), input.ItemID, input.Quantity)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.Line{CartLine: *line, TotalPrice: line.Total()})
	}
}

// PATCH /cart/increase/:id
func IncreaseCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := svc.Increase(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.Line{CartLine: *line, TotalPrice: line.Total()})
	}
}

// PATCH /cart/decrease/:id
func DecreaseCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := svc.Decrease(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cart.Line{CartLine: *line, TotalPrice: line.Total()})
	}
}

// DELETE /cart/remove/:id
func DeleteCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), middleware.SessionID(c), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart/clear
func ClearCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

package cartcontroller

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/checkout"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/middleware"
)

// GET /cart/checkout?promo=CODE
func GetCheckout(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := svc.Quote(c.Request.Context(), middleware.SessionID(c), c.Query("promo"), time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// GET /cart/receipt?promo=CODE answers with the PDF; the bill id is also
// sent in the X-Bill-ID header.
func GetReceipt(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		billID, err := svc.Receipt(c.Request.Context(), &buf, middleware.SessionID(c), c.Query("promo"), time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Header("X-Bill-ID", billID)
		c.Header("Access-Control-Expose-Headers", "X-Bill-ID")
		c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

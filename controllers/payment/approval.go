package paymentcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
)

// PUT /api/payment/:id/approve
func ApprovePayment(svc *payment.Service) gin.HandlerFunc {
	return review(svc.Approve, "Payment approved")
}

// PUT /api/payment/:id/reject
func RejectPayment(svc *payment.Service) gin.HandlerFunc {
	return review(svc.Reject, "Payment rejected")
}

func review(action func(context.Context, string) (*payment.Decision, error), message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := action(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      message,
			"payment":      d.Payment,
			"notification": d.Message,
			"whatsappLink": d.WhatsAppLink,
			"queued":       d.Queued,
		})
	}
}

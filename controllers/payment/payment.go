// Package paymentcontroller takes payment submissions from shoppers and
// serves the operator review screens.
package paymentcontroller

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/checkout"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/middleware"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
	"github.com/viduni-ubesekara/GreenLink-Project/uploads"
)

type Uploader interface {
	Save(fh *multipart.FileHeader, folder string) (string, error)
	Remove(ref string) error
}

type submitForm struct {
	payment.Payer
	Promo  string `form:"promo"`
	BillID string `form:"billId"`
}

// POST /api/payment (multipart)
func SubmitPayment(svc *checkout.Service, files Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form submitForm
		if err := c.ShouldBind(&form); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if err := payment.ValidatePayer(form.Payer); err != nil {
			respond.Error(c, err)
			return
		}

		var saved []string
		cleanup := func() {
			for _, ref := range saved {
				_ = files.Remove(ref)
			}
		}
		refs := map[string]string{}
		for _, field := range []string{"orderReceipt", "paymentSlip"} {
			fh, err := c.FormFile(field)
			if err != nil {
				continue
			}
			ref, err := files.Save(fh, uploads.FolderPayments)
			if err != nil {
				cleanup()
				respond.Error(c, err)
				return
			}
			saved = append(saved, ref)
			refs[field] = ref
		}

		p, err := svc.Submit(c.Request.Context(), middleware.SessionID(c), checkout.SubmitInput{
			Payer:        form.Payer,
			PromotionKey: form.Promo,
			BillID:       form.BillID,
			OrderReceipt: refs["orderReceipt"],
			PaymentSlip:  refs["paymentSlip"],
		}, time.Now())
		if err != nil {
			cleanup()
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// GET /api/payment?status=Submitted
func ListPayments(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.PaymentStatus(c.Query("status"))
		switch status {
		case "", models.PaymentPending, models.PaymentSubmitted, models.PaymentApproved, models.PaymentRejected:
		default:
			respond.Error(c, apperr.Validation("invalid status", map[string]string{"status": "Unknown payment status."}))
			return
		}
		list, err := svc.List(c.Request.Context(), store.PaymentFilter{Status: status})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetPayment(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func DeletePayment(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
	}
}

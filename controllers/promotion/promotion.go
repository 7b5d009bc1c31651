// Package promotioncontroller serves the marketing panel and the public
// promotion lookups.
package promotioncontroller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func CreatePromotion(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in promotion.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.BadRequest(c, err)
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// GET /api/promotions?type=Group
func ListPromotions(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.PromotionType(c.Query("type"))
		switch kind {
		case "", models.PromotionGroup, models.PromotionIndividual:
		default:
			respond.Error(c, apperr.Validation("invalid type", map[string]string{"type": "Type must be Individual or Group."}))
			return
		}
		list, err := svc.List(c.Request.Context(), store.PromotionFilter{Type: kind})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetPromotion(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func UpdatePromotion(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in promotion.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.BadRequest(c, err)
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func DeletePromotion(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted successfully"})
	}
}

func GetStats(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svc.Stats(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// GET /api/promotions/group lists the Group promotions running today.
func GetGroupPromotions(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListGroup(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /api/userpromo/getpromotion/:code checks a code before checkout.
func RedeemPromotion(svc *promotion.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Redeem(c.Request.Context(), c.Param("code"), time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

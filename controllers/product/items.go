package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

// GetItems lists items with optional search, category and sort_by/order.
func GetItems(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := strings.ToLower(c.DefaultQuery("order", "desc"))
		if order != "asc" && order != "desc" {
			respond.Error(c, apperr.Validation("invalid order", map[string]string{"order": "Order must be asc or desc."}))
			return
		}
		items, err := svc.List(c.Request.Context(), store.ItemFilter{
			Search:   strings.TrimSpace(c.Query("search")),
			Category: strings.TrimSpace(c.Query("category")),
			SortBy:   c.DefaultQuery("sort_by", "created_at"),
			Desc:     order == "desc",
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetItem(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func CreateItem(svc *catalog.Service, files Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, cleanup, err := bindItem(c, files)
		if err != nil {
			respond.Error(c, err)
			return
		}
		item, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			cleanup()
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateItem(svc *catalog.Service, files Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, cleanup, err := bindItem(c, files)
		if err != nil {
			respond.Error(c, err)
			return
		}
		item, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			cleanup()
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func DeleteItem(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	}
}

// SetItemPromotion toggles the promotion banner of one item.
func SetItemPromotion(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.PromotionSettings
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.BadRequest(c, err)
			return
		}
		item, err := svc.SetPromotion(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func GetLowStock(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.LowStock(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

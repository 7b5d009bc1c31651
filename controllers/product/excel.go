package productcontroller

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/controllers/respond"
	"github.com/viduni-ubesekara/GreenLink-Project/export"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func ExportItems(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), store.ItemFilter{SortBy: "name"})
		if err != nil {
			respond.Error(c, err)
			return
		}
		writeWorkbook(c, "items.xlsx", "Items", items)
	}
}

func ExportLowStock(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.LowStock(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		writeWorkbook(c, "low-stock.xlsx", "Low Stock", report.Low)
	}
}

// writeWorkbook renders into memory first so a failure can still answer
// with a JSON error.
func writeWorkbook(c *gin.Context, filename, sheet string, items []models.Item) {
	var buf bytes.Buffer
	if err := export.WriteItems(&buf, sheet, items); err != nil {
		respond.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// ImportItems creates or updates items from the uploaded "file" workbook.
func ImportItems(svc *catalog.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			respond.Error(c, apperr.Validation("Excel file is required", map[string]string{"file": "Excel file is required."}))
			return
		}
		file, err := fh.Open()
		if err != nil {
			respond.Error(c, err)
			return
		}
		defer file.Close()

		res, err := export.ImportItems(c.Request.Context(), svc, file, fh.Size, log)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": res.Created,
			"updated_count": res.Updated,
			"skipped_count": res.Skipped,
			"errors":        res.Errors,
		})
	}
}

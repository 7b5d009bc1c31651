// Package productcontroller serves the catalog: the public shop listing and
// the operator inventory panel.
package productcontroller

import (
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/uploads"
)

type Uploader interface {
	Save(fh *multipart.FileHeader, folder string) (string, error)
	Remove(ref string) error
}

// itemForm accepts both JSON and multipart bodies. Numbers may arrive as
// JSON numbers or strings.
type itemForm struct {
	Code                 string      `form:"itemID" json:"itemID"`
	Name                 string      `form:"itemName" json:"itemName"`
	Brand                string      `form:"itemBrand" json:"itemBrand"`
	Price                json.Number `form:"itemPrice" json:"itemPrice"`
	StockCount           json.Number `form:"stockCount" json:"stockCount"`
	Description          string      `form:"itemDescription" json:"itemDescription"`
	Category             string      `form:"catagory" json:"catagory"`
	Warranty             string      `form:"warranty" json:"warranty"`
	ImageURL             string      `form:"imgURL" json:"imgURL"`
	PromotionEnabled     bool        `form:"promotionEnable" json:"promotionEnable"`
	PromotionDescription string      `form:"promotionDescription" json:"promotionDescription"`
	ExpireDate           string      `form:"expireDate" json:"expireDate"`
}

func (f itemForm) toItem() (models.Item, error) {
	fields := map[string]string{}
	item := models.Item{
		Code:                 f.Code,
		Name:                 f.Name,
		Brand:                f.Brand,
		Description:          f.Description,
		Category:             f.Category,
		Warranty:             f.Warranty,
		ImageURL:             f.ImageURL,
		PromotionEnabled:     f.PromotionEnabled,
		PromotionDescription: f.PromotionDescription,
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price.String()))
	if err != nil {
		fields["itemPrice"] = "Item Price must be a number."
	}
	item.Price = price

	stock, err := f.StockCount.Int64()
	if err != nil {
		fields["stockCount"] = "Stock Count must be a whole number."
	}
	item.StockCount = int(stock)

	if expires, ok, err := parseDate(f.ExpireDate); err != nil {
		fields["expireDate"] = "Expire date is invalid."
	} else if ok {
		item.PromotionExpiresAt = &expires
	}

	if len(fields) > 0 {
		return item, apperr.Validation("invalid item", fields)
	}
	return item, nil
}

func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, apperr.Validation("invalid date", nil)
}

// bindItem reads the item form and stores an attached "image" file. The
// returned cleanup removes that file when the request fails later.
func bindItem(c *gin.Context, files Uploader) (models.Item, func(), error) {
	noop := func() {}
	var form itemForm
	if err := c.ShouldBind(&form); err != nil {
		return models.Item{}, noop, apperr.Validation("Invalid input: "+err.Error(), nil)
	}
	item, err := form.toItem()
	if err != nil {
		return models.Item{}, noop, err
	}

	fh, err := c.FormFile("image")
	if err != nil || files == nil {
		return item, noop, nil
	}
	ref, err := files.Save(fh, uploads.FolderItems)
	if err != nil {
		return models.Item{}, noop, err
	}
	item.ImageURL = ref
	return item, func() { _ = files.Remove(ref) }, nil
}

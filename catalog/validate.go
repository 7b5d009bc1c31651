// Package catalog manages the item inventory and low-stock reporting.
package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

const maxDescriptionLength = 200

// ValidateItem checks an item form. Expiry must lie in the future only when
// the item is being created.
func ValidateItem(item models.Item, creating bool, now time.Time) error {
	fields := map[string]string{}

	if utf8.RuneCountInString(strings.TrimSpace(item.Code)) < 3 {
		fields["itemID"] = "Item ID must be at least 3 characters."
	}
	if utf8.RuneCountInString(strings.TrimSpace(item.Name)) < 3 {
		fields["itemName"] = "Item Name must be at least 3 characters."
	}
	if strings.TrimSpace(item.Brand) == "" {
		fields["itemBrand"] = "Item Brand is required."
	}
	if strings.TrimSpace(item.Category) == "" {
		fields["catagory"] = "Category is required."
	}
	if strings.TrimSpace(item.ImageURL) == "" {
		fields["imgURL"] = "Item image is required."
	}
	if item.Price.IsNegative() {
		fields["itemPrice"] = "Item Price must not be negative."
	}
	if item.StockCount < 0 {
		fields["stockCount"] = "Stock Count must not be negative."
	}
	if utf8.RuneCountInString(item.Description) > maxDescriptionLength {
		fields["itemDescription"] = "Description must be under 200 characters."
	}
	if creating && item.PromotionExpiresAt != nil && !item.PromotionExpiresAt.After(now) {
		fields["expireDate"] = "Expire date must be in the future."
	}

	if len(fields) > 0 {
		return apperr.Validation("invalid item", fields)
	}
	return nil
}

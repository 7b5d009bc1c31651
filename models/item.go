package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog record. Code is the operator-facing identifier
// (itemID in the back-office forms), ID the storage key.
type Item struct {
	ID                   string          `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Code                 string          `gorm:"uniqueIndex;size:64;not null" json:"itemID" bson:"itemID"`
	Name                 string          `gorm:"not null" json:"itemName" bson:"itemName"`
	Brand                string          `json:"itemBrand" bson:"itemBrand"`
	Price                decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"itemPrice" bson:"itemPrice"`
	StockCount           int             `gorm:"not null" json:"stockCount" bson:"stockCount"`
	Description          string          `json:"itemDescription" bson:"itemDescription"`
	Category             string          `gorm:"index" json:"catagory" bson:"catagory"`
	Warranty             string          `json:"warranty,omitempty" bson:"warranty,omitempty"`
	ImageURL             string          `gorm:"not null" json:"imgURL" bson:"imgURL"`
	PromotionEnabled     bool            `json:"promotionEnable" bson:"promotionEnable"`
	PromotionDescription string          `json:"promotionDescription" bson:"promotionDescription"`
	PromotionExpiresAt   *time.Time      `json:"expireDate,omitempty" bson:"expireDate,omitempty"`
	CreatedAt            time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// PromotionActive reports whether the item-level promotion banner should be
// shown at now.
func (i Item) PromotionActive(now time.Time) bool {
	if !i.PromotionEnabled {
		return false
	}
	return i.PromotionExpiresAt == nil || now.Before(*i.PromotionExpiresAt)
}

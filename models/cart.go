package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (item, quantity) pair in a session's cart. UnitPrice is
// the item price captured when the line was first added.
type CartLine struct {
	ID        string          `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	SessionID string          `gorm:"uniqueIndex:idx_cart_session_item;size:64;not null" json:"-" bson:"sessionId"`
	ItemID    string          `gorm:"uniqueIndex:idx_cart_session_item;size:36;not null" json:"itemId" bson:"itemId"`
	ItemCode  string          `json:"itemID" bson:"itemCode"`
	ItemName  string          `json:"itemName" bson:"itemName"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"itemPrice" bson:"unitPrice"`
	Quantity  int             `gorm:"not null" json:"itemCount" bson:"quantity"`
	AddedAt   time.Time       `json:"addedAt" bson:"addedAt"`
}

// Total is quantity x unit price.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumLines adds up the line totals.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

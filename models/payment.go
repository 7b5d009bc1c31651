package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"   // stored default, never set by checkout
	PaymentSubmitted PaymentStatus = "Submitted" // payer uploaded receipt/slip
	PaymentApproved  PaymentStatus = "Approved"  // terminal
	PaymentRejected  PaymentStatus = "Rejected"  // terminal
)

// PaymentLine is the cart line snapshot taken at checkout.
type PaymentLine struct {
	ItemID    string          `json:"itemId" bson:"itemId"`
	ItemName  string          `json:"itemName" bson:"itemName"`
	UnitPrice decimal.Decimal `json:"itemPrice" bson:"unitPrice"`
	Quantity  int             `json:"itemCount" bson:"quantity"`
}

type Payment struct {
	ID            string          `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Name          string          `gorm:"not null" json:"name" bson:"name"`
	PhoneNumber   string          `gorm:"size:20;not null" json:"phoneNumber" bson:"phoneNumber"`
	Email         string          `gorm:"not null" json:"email" bson:"email"`
	SessionID     string          `gorm:"size:64;index" json:"-" bson:"sessionId"`
	BillID        string          `gorm:"size:32;index" json:"billId" bson:"billId"`
	PromotionKey  string          `json:"promotionKey,omitempty" bson:"promotionKey,omitempty"`
	OriginalTotal decimal.Decimal `gorm:"type:numeric(12,2)" json:"originalTotal" bson:"originalTotal"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount" bson:"amount"`
	Lines         []PaymentLine   `gorm:"serializer:json;type:text" json:"lines,omitempty" bson:"lines,omitempty"`
	OrderReceipt  string          `json:"orderReceipt,omitempty" bson:"orderReceipt,omitempty"`
	PaymentSlip   string          `json:"paymentSlip,omitempty" bson:"paymentSlip,omitempty"`
	Status        PaymentStatus   `gorm:"size:20;default:'Pending';index" json:"paymentStatus" bson:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	// PromotionIndividual is scoped to one recipient email.
	PromotionIndividual PromotionType = "Individual"
	// PromotionGroup is redeemable by anyone holding the key.
	PromotionGroup PromotionType = "Group"
)

type DiscountKind string

const (
	// DiscountLegacy has no structured rule; the percentage lives in the
	// free-text description ("Save 20% now").
	DiscountLegacy     DiscountKind = ""
	DiscountTiered     DiscountKind = "tiered"
	DiscountPerProduct DiscountKind = "customize"
	DiscountGlobal     DiscountKind = "global"
)

type DiscountUnit string

const (
	UnitPercent DiscountUnit = "%"
	UnitAmount  DiscountUnit = "Rs"
)

type Tier struct {
	MinAmount decimal.Decimal `json:"minAmount" bson:"minAmount"`
	Percent   decimal.Decimal `json:"discountPercentage" bson:"discountPercentage"`
}

type ProductDiscount struct {
	ItemID string          `json:"productId" bson:"productId"`
	Value  decimal.Decimal `json:"discountValue" bson:"discountValue"`
	Unit   DiscountUnit    `json:"discountUnit" bson:"discountUnit"`
}

// DiscountRule is decided when the promotion is created. Only the fields
// belonging to Kind are meaningful.
type DiscountRule struct {
	Kind        DiscountKind      `json:"discountApplyType" bson:"discountApplyType"`
	Tiers       []Tier            `json:"tiers,omitempty" bson:"tiers,omitempty"`
	Products    []ProductDiscount `json:"products,omitempty" bson:"products,omitempty"`
	GlobalValue decimal.Decimal   `json:"globalDiscountValue" bson:"globalDiscountValue"`
	GlobalUnit  DiscountUnit      `json:"globalDiscountUnit,omitempty" bson:"globalDiscountUnit,omitempty"`
}

type Promotion struct {
	ID            string        `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Name          string        `gorm:"not null" json:"promotionName" bson:"promotionName"`
	Key           string        `gorm:"column:promo_key;uniqueIndex;size:64;not null" json:"promotionKey" bson:"promotionKey"`
	StartDate     time.Time     `gorm:"not null" json:"startDate" bson:"startDate"`
	EndDate       time.Time     `gorm:"not null" json:"endDate" bson:"endDate"`
	UserEmail     string        `json:"userEmail" bson:"userEmail"`
	ContactNumber string        `json:"number,omitempty" bson:"number,omitempty"`
	Type          PromotionType `gorm:"size:20;not null;index" json:"promotionType" bson:"promotionType"`
	Description   string        `json:"description" bson:"description"`
	ImageBase64   string        `gorm:"type:text" json:"imageBase64,omitempty" bson:"imageBase64,omitempty"`
	Discount      DiscountRule  `gorm:"serializer:json;type:text" json:"discount" bson:"discount"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Package store declares the persistence contracts. sqlstore implements
// them on gorm, mongostore on the MongoDB driver.
package store

import (
	"context"

	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

type ItemFilter struct {
	Search   string
	Category string
	// SortBy is one of name, price, stock, created_at.
	SortBy string
	Desc   bool
}

type PromotionFilter struct {
	Type models.PromotionType
}

type PaymentFilter struct {
	Status models.PaymentStatus
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	GetItemByCode(ctx context.Context, code string) (*models.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock count; it fails with InvalidState
	// instead of letting the count go negative.
	AdjustStock(ctx context.Context, id string, delta int) error
}

type CartStore interface {
	ListLines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	GetLine(ctx context.Context, sessionID, lineID string) (*models.CartLine, error)
	FindLineByItem(ctx context.Context, sessionID, itemID string) (*models.CartLine, error)
	SaveLine(ctx context.Context, line *models.CartLine) error
	DeleteLine(ctx context.Context, sessionID, lineID string) error
	ClearLines(ctx context.Context, sessionID string) error
}

type PromotionStore interface {
	CreatePromotion(ctx context.Context, promo *models.Promotion) error
	GetPromotion(ctx context.Context, id string) (*models.Promotion, error)
	GetPromotionByKey(ctx context.Context, key string) (*models.Promotion, error)
	ListPromotions(ctx context.Context, filter PromotionFilter) ([]models.Promotion, error)
	UpdatePromotion(ctx context.Context, promo *models.Promotion) error
	DeletePromotion(ctx context.Context, id string) error
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error)
	// TransitionPayment moves the payment from -> to only if its stored
	// status still equals from. The updated record is returned.
	TransitionPayment(ctx context.Context, id string, from, to models.PaymentStatus) (*models.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

type Store interface {
	ItemStore
	CartStore
	PromotionStore
	PaymentStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// SortColumn maps an ItemFilter.SortBy value to a storage field name; the
// second result is false for unknown values.
func SortColumn(sortBy string) (string, bool) {
	switch sortBy {
	case "", "created_at":
		return "created_at", true
	case "name":
		return "name", true
	case "price":
		return "price", true
	case "stock":
		return "stock_count", true
	default:
		return "", false
	}
}

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	s, err := Open(sqlite.Open(dsn), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func seedItem(t *testing.T, s *Store, code, name string, stock int, price string) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:         uuid.NewString(),
		Code:       code,
		Name:       name,
		Brand:      "GreenLink",
		Price:      decimal.RequireFromString(price),
		StockCount: stock,
		Category:   "Fertilizer",
		ImageURL:   "/uploads/" + code + ".png",
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

func TestItems_CreateGetList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	urea := seedItem(t, s, "FRT-001", "Urea", 10, "1250.50")
	seedItem(t, s, "SED-002", "Paddy Seeds", 80, "300")

	got, err := s.GetItem(ctx, urea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Urea", got.Name)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(got.Price))

	byCode, err := s.GetItemByCode(ctx, "SED-002")
	require.NoError(t, err)
	assert.Equal(t, "Paddy Seeds", byCode.Name)

	items, err := s.ListItems(ctx, store.ItemFilter{Search: "paddy"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SED-002", items[0].Code)

	items, err = s.ListItems(ctx, store.ItemFilter{SortBy: "stock", Desc: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 80, items[0].StockCount)

	_, err = s.ListItems(ctx, store.ItemFilter{SortBy: "colour"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestItems_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetItem(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = s.DeleteItem(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = s.UpdateItem(ctx, &models.Item{ID: "missing", Code: "X-1", Name: "Ghost"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestItems_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "FRT-001", "Urea", 10, "100")

	item.Name = "Urea 50kg"
	item.PromotionEnabled = false
	require.NoError(t, s.UpdateItem(ctx, item))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Urea 50kg", got.Name)
}

func TestAdjustStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "FRT-001", "Urea", 5, "100")

	require.NoError(t, s.AdjustStock(ctx, item.ID, -3))
	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockCount)

	err = s.AdjustStock(ctx, item.ID, -3)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	got, err = s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockCount)

	err = s.AdjustStock(ctx, "missing", 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCartLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "FRT-001", "Urea", 5, "100")

	line := &models.CartLine{
		ID:        uuid.NewString(),
		SessionID: "session-a",
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	require.NoError(t, s.SaveLine(ctx, line))

	line.Quantity = 3
	require.NoError(t, s.SaveLine(ctx, line))

	found, err := s.FindLineByItem(ctx, "session-a", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)

	_, err = s.GetLine(ctx, "session-b", line.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	lines, err := s.ListLines(ctx, "session-b")
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, s.ClearLines(ctx, "session-a"))
	lines, err = s.ListLines(ctx, "session-a")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestPromotions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	promo := &models.Promotion{
		ID:          uuid.NewString(),
		Name:        "Harvest",
		Key:         "HARVEST20",
		StartDate:   time.Now().Add(-time.Hour),
		EndDate:     time.Now().Add(time.Hour),
		Type:        models.PromotionGroup,
		Description: "Save 20% this week",
		Discount: models.DiscountRule{
			Kind:  models.DiscountTiered,
			Tiers: []models.Tier{{MinAmount: decimal.NewFromInt(1000), Percent: decimal.NewFromInt(10)}},
		},
	}
	require.NoError(t, s.CreatePromotion(ctx, promo))

	got, err := s.GetPromotionByKey(ctx, "HARVEST20")
	require.NoError(t, err)
	assert.Equal(t, models.DiscountTiered, got.Discount.Kind)
	require.Len(t, got.Discount.Tiers, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Discount.Tiers[0].Percent))

	_, err = s.GetPromotionByKey(ctx, "NOPE")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	list, err := s.ListPromotions(ctx, store.PromotionFilter{Type: models.PromotionIndividual})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.DeletePromotion(ctx, promo.ID))
	assert.True(t, apperr.Is(s.DeletePromotion(ctx, promo.ID), apperr.KindNotFound))
}

func TestTransitionPayment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payment := &models.Payment{
		ID:          uuid.NewString(),
		Name:        "Nimal",
		PhoneNumber: "0771234567",
		Email:       "nimal@example.com",
		Amount:      decimal.NewFromInt(200),
		Status:      models.PaymentSubmitted,
	}
	require.NoError(t, s.CreatePayment(ctx, payment))

	updated, err := s.TransitionPayment(ctx, payment.ID, models.PaymentSubmitted, models.PaymentApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, updated.Status)

	_, err = s.TransitionPayment(ctx, payment.ID, models.PaymentSubmitted, models.PaymentRejected)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	_, err = s.TransitionPayment(ctx, "missing", models.PaymentSubmitted, models.PaymentApproved)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	approved, err := s.ListPayments(ctx, store.PaymentFilter{Status: models.PaymentApproved})
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

// Package checkout prices a session's cart, issues the bank transfer
// receipt and turns the cart into a submitted payment.
package checkout

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/cart"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/receipt"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

type Redeemer interface {
	Redeem(ctx context.Context, code string, now time.Time) (*promotion.Discount, error)
}

type Submitter interface {
	Submit(ctx context.Context, p *models.Payment) error
}

// Quote is the priced cart shown on the checkout page.
type Quote struct {
	Lines     []cart.Line `json:"items"`
	ItemCount int         `json:"itemCount"`
	promotion.Applied
	PromotionKey string `json:"promotionKey,omitempty"`
	// PromoError explains why a requested code gave no discount.
	PromoError string `json:"promoError,omitempty"`
}

type Service struct {
	lines    store.CartStore
	items    store.ItemStore
	promos   Redeemer
	payments Submitter
	company  receipt.Company
	log      *zap.Logger
}

func NewService(lines store.CartStore, items store.ItemStore, promos Redeemer, payments Submitter, company receipt.Company, log *zap.Logger) *Service {
	return &Service{
		lines:    lines,
		items:    items,
		promos:   promos,
		payments: payments,
		company:  company,
		log:      log,
	}
}

// Quote prices the cart with the promotion code, if any. A code that
// cannot be redeemed leaves the cart at full price and sets PromoError.
func (s *Service) Quote(ctx context.Context, sessionID, code string, now time.Time) (*Quote, error) {
	lines, err := s.lines.ListLines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sum := cart.Summarize(lines)
	q := &Quote{
		Lines:     sum.Lines,
		ItemCount: sum.ItemCount,
		Applied:   promotion.NoDiscount(sum.Total),
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return q, nil
	}
	d, err := s.promos.Redeem(ctx, code, now)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, err
		}
		q.PromoError = promoMessage(err)
		s.log.Info("promotion not applied", zap.String("code", code), zap.Error(err))
		return q, nil
	}
	q.Applied = d.Apply(lines)
	q.PromotionKey = d.Key
	return q, nil
}

func promoMessage(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "Invalid promo code."
	case apperr.KindParse:
		return "Invalid promo description."
	default:
		if appErr, ok := apperr.As(err); ok {
			return appErr.Message
		}
		return err.Error()
	}
}

// Receipt renders the quote as a PDF to w and returns the bill id printed
// on it.
func (s *Service) Receipt(ctx context.Context, w io.Writer, sessionID, code string, now time.Time) (string, error) {
	q, err := s.Quote(ctx, sessionID, code, now)
	if err != nil {
		return "", err
	}
	if len(q.Lines) == 0 {
		return "", apperr.InvalidState("cart is empty")
	}

	billID := receipt.NewBillID()
	r := receipt.Receipt{
		BillID:       billID,
		IssuedAt:     now,
		Original:     q.Original,
		Discount:     q.Amount,
		Total:        q.Total,
		PromotionKey: q.PromotionKey,
	}
	for _, l := range q.Lines {
		r.Lines = append(r.Lines, receipt.Line{
			Name:      l.ItemName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Total:     l.TotalPrice,
		})
	}
	if err := receipt.Render(w, s.company, r); err != nil {
		return "", err
	}
	return billID, nil
}

type SubmitInput struct {
	Payer        payment.Payer
	PromotionKey string
	BillID       string
	OrderReceipt string
	PaymentSlip  string
}

// Submit turns the session's cart into a Submitted payment: stock is taken
// for every line, the payment is recorded and the cart is emptied. Stock
// already taken is returned if a later step fails.
func (s *Service) Submit(ctx context.Context, sessionID string, in SubmitInput, now time.Time) (*models.Payment, error) {
	if err := payment.ValidatePayer(in.Payer); err != nil {
		return nil, err
	}
	billID := strings.ToUpper(strings.TrimSpace(in.BillID))
	if billID != "" && !receipt.ValidBillID(billID) {
		return nil, apperr.Validation("invalid bill id", map[string]string{"billId": "Bill ID must look like GL-1A2B3C4D."})
	}
	q, err := s.Quote(ctx, sessionID, in.PromotionKey, now)
	if err != nil {
		return nil, err
	}
	if len(q.Lines) == 0 {
		return nil, apperr.InvalidState("cart is empty")
	}

	var taken []cart.Line
	release := func() {
		for _, l := range taken {
			if err := s.items.AdjustStock(ctx, l.ItemID, l.Quantity); err != nil {
				s.log.Error("returning stock", zap.String("item_id", l.ItemID), zap.Error(err))
			}
		}
	}
	for _, l := range q.Lines {
		if err := s.items.AdjustStock(ctx, l.ItemID, -l.Quantity); err != nil {
			release()
			if apperr.Is(err, apperr.KindInvalidState) {
				return nil, apperr.InvalidState("not enough stock for %s", l.ItemName)
			}
			return nil, err
		}
		taken = append(taken, l)
	}

	if billID == "" {
		billID = receipt.NewBillID()
	}
	p := &models.Payment{
		Name:          in.Payer.Name,
		Email:         in.Payer.Email,
		PhoneNumber:   in.Payer.PhoneNumber,
		SessionID:     sessionID,
		BillID:        billID,
		PromotionKey:  q.PromotionKey,
		OriginalTotal: q.Original,
		Amount:        q.Total,
		OrderReceipt:  in.OrderReceipt,
		PaymentSlip:   in.PaymentSlip,
	}
	for _, l := range q.Lines {
		p.Lines = append(p.Lines, models.PaymentLine{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	if err := s.payments.Submit(ctx, p); err != nil {
		release()
		return nil, err
	}

	if err := s.lines.ClearLines(ctx, sessionID); err != nil {
		s.log.Warn("clearing cart after checkout", zap.String("payment_id", p.ID), zap.Error(err))
	}
	return p, nil
}

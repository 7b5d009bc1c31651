// Package cart keeps one cart per session id.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

// Line is a cart line as the shop renders it.
type Line struct {
	models.CartLine
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Summary struct {
	Lines     []Line          `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

func Summarize(lines []models.CartLine) Summary {
	sum := Summary{Lines: make([]Line, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		total := l.Total()
		sum.Lines = append(sum.Lines, Line{CartLine: l, TotalPrice: total})
		sum.ItemCount += l.Quantity
		sum.Total = sum.Total.Add(total)
	}
	return sum
}

type Service struct {
	items store.ItemStore
	lines store.CartStore
	log   *zap.Logger
	now   func() time.Time
}

func NewService(items store.ItemStore, lines store.CartStore, log *zap.Logger) *Service {
	return &Service{items: items, lines: lines, log: log, now: time.Now}
}

func (s *Service) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	return s.lines.ListLines(ctx, sessionID)
}

func (s *Service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	lines, err := s.lines.ListLines(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(lines), nil
}

// Add puts quantity units of itemID in the cart, merging into the existing
// line for that item. The unit price is captured on the first add.
func (s *Service) Add(ctx context.Context, sessionID, itemID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, apperr.Validation("invalid quantity", map[string]string{"itemCount": "Quantity must be at least 1."})
	}
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	line, err := s.lines.FindLineByItem(ctx, sessionID, itemID)
	switch {
	case err == nil:
		line.Quantity += quantity
	case apperr.Is(err, apperr.KindNotFound):
		line = &models.CartLine{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			ItemID:    item.ID,
			ItemCode:  item.Code,
			ItemName:  item.Name,
			UnitPrice: item.Price,
			Quantity:  quantity,
			AddedAt:   s.now().UTC(),
		}
	default:
		return nil, err
	}

	if line.Quantity > item.StockCount {
		return nil, apperr.InvalidState("only %d of %s in stock", item.StockCount, item.Name)
	}
	if err := s.lines.SaveLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) Increase(ctx context.Context, sessionID, lineID string) (*models.CartLine, error) {
	line, err := s.lines.GetLine(ctx, sessionID, lineID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(ctx, line.ItemID)
	if err != nil {
		return nil, err
	}
	if line.Quantity+1 > item.StockCount {
		return nil, apperr.InvalidState("only %d of %s in stock", item.StockCount, item.Name)
	}
	line.Quantity++
	if err := s.lines.SaveLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// Decrease drops one unit; a line never goes below one, use Remove instead.
func (s *Service) Decrease(ctx context.Context, sessionID, lineID string) (*models.CartLine, error) {
	line, err := s.lines.GetLine(ctx, sessionID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Quantity <= 1 {
		return nil, apperr.Validation("invalid quantity", map[string]string{"itemCount": "Quantity cannot go below 1."})
	}
	line.Quantity--
	if err := s.lines.SaveLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) Remove(ctx context.Context, sessionID, lineID string) error {
	return s.lines.DeleteLine(ctx, sessionID, lineID)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.lines.ClearLines(ctx, sessionID); err != nil {
		return err
	}
	s.log.Debug("cart cleared", zap.String("session_id", sessionID))
	return nil
}

func (s *Service) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	lines, err := s.lines.ListLines(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return models.SumLines(lines), nil
}

package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/metrics"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/notify"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

// Notifier queues a message for background delivery.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}

// InWindow reports whether now falls on or between the start and end
// calendar days of p, as seen in loc.
func InWindow(p models.Promotion, now time.Time, loc *time.Location) bool {
	start := startOfDay(p.StartDate, loc)
	endExclusive := startOfDay(p.EndDate, loc).AddDate(0, 0, 1)
	now = now.In(loc)
	return !now.Before(start) && now.Before(endExclusive)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type Service struct {
	promos   store.PromotionStore
	notifier Notifier
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewService(promos store.PromotionStore, notifier Notifier, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{promos: promos, notifier: notifier, log: log, loc: loc, now: time.Now}
}

// Redeem checks code for public redemption at now: it must exist, be
// inside its window, be a Group promotion and carry a usable discount.
func (s *Service) Redeem(ctx context.Context, code string, now time.Time) (*Discount, error) {
	promo, err := s.promos.GetPromotionByKey(ctx, code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			metrics.PromotionRedemptions.WithLabelValues("not_found").Inc()
			return nil, apperr.NotFound("promotion code %q not found", code)
		}
		return nil, err
	}
	if !InWindow(*promo, now, s.loc) {
		metrics.PromotionRedemptions.WithLabelValues("inactive").Inc()
		return nil, apperr.InvalidState("promotion %q is not active", code)
	}
	if promo.Type != models.PromotionGroup {
		metrics.PromotionRedemptions.WithLabelValues("not_group").Inc()
		return nil, apperr.InvalidState("promotion %q cannot be redeemed with a code", code)
	}

	d := &Discount{Key: promo.Key, Name: promo.Name, Rule: promo.Discount}
	if promo.Discount.Kind == models.DiscountLegacy {
		p, err := ParsePercent(promo.Description)
		if err != nil {
			metrics.PromotionRedemptions.WithLabelValues("parse_error").Inc()
			return nil, err
		}
		percent := decimal.NewFromInt(int64(p))
		d.LegacyPercent = &percent
	}
	metrics.PromotionRedemptions.WithLabelValues("accepted").Inc()
	return d, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Promotion, error) {
	promo, err := in.ToModel(s.loc)
	if err != nil {
		return nil, err
	}
	if _, err := s.promos.GetPromotionByKey(ctx, promo.Key); err == nil {
		return nil, apperr.Validation("promotion key already exists", map[string]string{"promotionKey": "Promotion key is already in use."})
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	ts := s.now().UTC()
	promo.ID = uuid.NewString()
	promo.CreatedAt = ts
	promo.UpdatedAt = ts
	if err := s.promos.CreatePromotion(ctx, promo); err != nil {
		return nil, err
	}
	s.log.Info("promotion created",
		zap.String("promotion_id", promo.ID),
		zap.String("key", promo.Key),
		zap.String("type", string(promo.Type)))

	if promo.Type == models.PromotionIndividual && promo.UserEmail != "" {
		s.sendPromotionEmail(promo)
	}
	return promo, nil
}

func (s *Service) sendPromotionEmail(promo *models.Promotion) {
	if s.notifier == nil {
		return
	}
	subject, body := notify.PromotionEmail(promo.Name, promo.ImageBase64)
	s.notifier.Enqueue(notify.Message{
		Channel:   notify.ChannelEmail,
		Recipient: promo.UserEmail,
		Subject:   subject,
		Body:      body,
		HTML:      true,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*models.Promotion, error) {
	return s.promos.GetPromotion(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.PromotionFilter) ([]models.Promotion, error) {
	return s.promos.ListPromotions(ctx, filter)
}

// ListGroup returns the Group promotions running today, for the shop's
// home page.
func (s *Service) ListGroup(ctx context.Context) ([]models.Promotion, error) {
	all, err := s.promos.ListPromotions(ctx, store.PromotionFilter{Type: models.PromotionGroup})
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := make([]models.Promotion, 0, len(all))
	for _, p := range all {
		if InWindow(p, now, s.loc) {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*models.Promotion, error) {
	current, err := s.promos.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	promo, err := in.ToModel(s.loc)
	if err != nil {
		return nil, err
	}
	if promo.Key != current.Key {
		other, err := s.promos.GetPromotionByKey(ctx, promo.Key)
		switch {
		case err == nil && other.ID != id:
			return nil, apperr.Validation("promotion key already exists", map[string]string{"promotionKey": "Promotion key is already in use."})
		case err != nil && !apperr.Is(err, apperr.KindNotFound):
			return nil, err
		}
	}
	promo.ID = current.ID
	promo.CreatedAt = current.CreatedAt
	if err := s.promos.UpdatePromotion(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.promos.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.log.Info("promotion deleted", zap.String("promotion_id", id))
	return nil
}

type Stats struct {
	Total      int `json:"total"`
	Group      int `json:"group"`
	Individual int `json:"individual"`
	Active     int `json:"active"`
	Upcoming   int `json:"upcoming"`
	Expired    int `json:"expired"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.promos.ListPromotions(ctx, store.PromotionFilter{})
	if err != nil {
		return Stats{}, err
	}
	now := s.now()
	var st Stats
	for _, p := range all {
		st.Total++
		if p.Type == models.PromotionGroup {
			st.Group++
		} else {
			st.Individual++
		}
		switch {
		case InWindow(p, now, s.loc):
			st.Active++
		case now.Before(startOfDay(p.StartDate, s.loc)):
			st.Upcoming++
		default:
			st.Expired++
		}
	}
	return st, nil
}

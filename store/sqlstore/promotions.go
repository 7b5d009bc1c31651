package sqlstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func (s *Store) CreatePromotion(ctx context.Context, promo *models.Promotion) error {
	if err := s.db.WithContext(ctx).Create(promo).Error; err != nil {
		return duplicate(err, "promotion key")
	}
	return nil
}

func (s *Store) GetPromotion(ctx context.Context, id string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.first(ctx, &promo, "promotion", "id = ?", id); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Store) GetPromotionByKey(ctx context.Context, key string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.first(ctx, &promo, "promotion", "promo_key = ?", key); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Store) ListPromotions(ctx context.Context, filter store.PromotionFilter) ([]models.Promotion, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	var promos []models.Promotion
	if err := q.Find(&promos).Error; err != nil {
		return nil, errors.Wrap(err, "sqlstore: list promotions")
	}
	return promos, nil
}

func (s *Store) UpdatePromotion(ctx context.Context, promo *models.Promotion) error {
	promo.UpdatedAt = now()
	res := s.db.WithContext(ctx).Model(promo).Select("*").Omit("created_at").Updates(promo)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.Validation("promotion key already exists", map[string]string{"promotionKey": promo.Key})
		}
		return errors.Wrap(res.Error, "sqlstore: update promotion")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("promotion not found")
	}
	return nil
}

func (s *Store) DeletePromotion(ctx context.Context, id string) error {
	return s.deleteWhere(ctx, &models.Promotion{}, "promotion", "id = ?", id)
}

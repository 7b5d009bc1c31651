package sqlstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return duplicate(err, "item")
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.first(ctx, &item, "item", "id = ?", id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItemByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	if err := s.first(ctx, &item, "item", "code = ?", code); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, filter store.ItemFilter) ([]models.Item, error) {
	column, ok := store.SortColumn(filter.SortBy)
	if !ok {
		return nil, apperr.Validation("invalid sort field", map[string]string{"sortBy": filter.SortBy})
	}
	order := column + " ASC"
	if filter.Desc {
		order = column + " DESC"
	}

	q := s.db.WithContext(ctx).Model(&models.Item{})
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like, like,
		)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var items []models.Item
	if err := q.Order(order).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "sqlstore: list items")
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = now()
	res := s.db.WithContext(ctx).Model(item).Select("*").Omit("created_at").Updates(item)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.Validation("item already exists", map[string]string{"itemID": item.Code})
		}
		return errors.Wrap(res.Error, "sqlstore: update item")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.deleteWhere(ctx, &models.Item{}, "item", "id = ?", id)
}

func (s *Store) AdjustStock(ctx context.Context, id string, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND stock_count + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock_count": gorm.Expr("stock_count + ?", delta),
			"updated_at":  now(),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "sqlstore: adjust stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	return apperr.InvalidState("insufficient stock for %s: have %d, need %d", item.Name, item.StockCount, -delta)
}

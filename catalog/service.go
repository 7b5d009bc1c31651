package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

// FileRemover deletes a stored upload by its public reference.
type FileRemover interface {
	Remove(ref string) error
}

type Service struct {
	items     store.ItemStore
	files     FileRemover
	log       *zap.Logger
	threshold int
	now       func() time.Time
}

func NewService(items store.ItemStore, files FileRemover, threshold int, log *zap.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{items: items, files: files, log: log, threshold: threshold, now: time.Now}
}

func (s *Service) Threshold() int {
	return s.threshold
}

func (s *Service) Create(ctx context.Context, item models.Item) (*models.Item, error) {
	normalize(&item)
	if err := ValidateItem(item, true, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.items.GetItemByCode(ctx, item.Code); err == nil {
		return nil, apperr.Validation("item already exists", map[string]string{"itemID": "Item ID is already in use."})
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	ts := s.now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = ts
	item.UpdatedAt = ts
	if err := s.items.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	s.log.Info("item created", zap.String("item_id", item.ID), zap.String("code", item.Code))
	return &item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.items.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.ItemFilter) ([]models.Item, error) {
	return s.items.ListItems(ctx, filter)
}

// Update replaces the editable fields of id with those of in. A replaced
// image is removed from disk after the record is saved.
func (s *Service) Update(ctx context.Context, id string, in models.Item) (*models.Item, error) {
	current, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	normalize(&in)
	if in.ImageURL == "" {
		in.ImageURL = current.ImageURL
	}
	if err := ValidateItem(in, false, s.now()); err != nil {
		return nil, err
	}
	if in.Code != current.Code {
		if other, err := s.items.GetItemByCode(ctx, in.Code); err == nil && other.ID != id {
			return nil, apperr.Validation("item already exists", map[string]string{"itemID": "Item ID is already in use."})
		}
	}

	oldImage := current.ImageURL
	in.ID = current.ID
	in.CreatedAt = current.CreatedAt
	if err := s.items.UpdateItem(ctx, &in); err != nil {
		return nil, err
	}
	if oldImage != in.ImageURL {
		s.removeFile(oldImage)
	}
	return &in, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.removeFile(item.ImageURL)
	s.log.Info("item deleted", zap.String("item_id", id))
	return nil
}

// PromotionSettings drives the item-level promotion banner.
type PromotionSettings struct {
	Enabled     bool       `json:"promotionEnable"`
	Description string     `json:"promotionDescription"`
	ExpiresAt   *time.Time `json:"expireDate"`
}

func (s *Service) SetPromotion(ctx context.Context, id string, p PromotionSettings) (*models.Item, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Enabled && p.ExpiresAt != nil && !p.ExpiresAt.After(s.now()) {
		return nil, apperr.Validation("invalid promotion", map[string]string{"expireDate": "Expire date must be in the future."})
	}
	item.PromotionEnabled = p.Enabled
	item.PromotionDescription = strings.TrimSpace(p.Description)
	item.PromotionExpiresAt = p.ExpiresAt
	if !p.Enabled {
		item.PromotionExpiresAt = nil
	}
	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) LowStock(ctx context.Context) (*LowStockReport, error) {
	items, err := s.items.ListItems(ctx, store.ItemFilter{SortBy: "stock"})
	if err != nil {
		return nil, err
	}
	low, normal := PartitionLowStock(items, s.threshold)
	return &LowStockReport{Threshold: s.threshold, Low: low, Normal: normal}, nil
}

// Upsert creates the item or, when its code already exists, updates that
// record. It reports whether a new item was created.
func (s *Service) Upsert(ctx context.Context, item models.Item) (bool, error) {
	normalize(&item)
	existing, err := s.items.GetItemByCode(ctx, item.Code)
	switch {
	case err == nil:
		_, err = s.Update(ctx, existing.ID, item)
		return false, err
	case apperr.Is(err, apperr.KindNotFound):
		_, err = s.Create(ctx, item)
		return err == nil, err
	default:
		return false, err
	}
}

func (s *Service) removeFile(ref string) {
	if s.files == nil || ref == "" {
		return
	}
	if err := s.files.Remove(ref); err != nil {
		s.log.Warn("removing item image", zap.String("ref", ref), zap.Error(err))
	}
}

func normalize(item *models.Item) {
	item.Code = strings.TrimSpace(item.Code)
	item.Name = strings.TrimSpace(item.Name)
	item.Brand = strings.TrimSpace(item.Brand)
	item.Category = strings.TrimSpace(item.Category)
}

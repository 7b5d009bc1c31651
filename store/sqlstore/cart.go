package sqlstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

func (s *Store) ListLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("added_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: list cart")
	}
	return lines, nil
}

func (s *Store) GetLine(ctx context.Context, sessionID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := s.first(ctx, &line, "cart item", "session_id = ? AND id = ?", sessionID, lineID); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Store) FindLineByItem(ctx context.Context, sessionID, itemID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := s.first(ctx, &line, "cart item", "session_id = ? AND item_id = ?", sessionID, itemID); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Store) SaveLine(ctx context.Context, line *models.CartLine) error {
	if err := s.db.WithContext(ctx).Save(line).Error; err != nil {
		return errors.Wrap(err, "sqlstore: save cart line")
	}
	return nil
}

func (s *Store) DeleteLine(ctx context.Context, sessionID, lineID string) error {
	return s.deleteWhere(ctx, &models.CartLine{}, "cart item", "session_id = ? AND id = ?", sessionID, lineID)
}

func (s *Store) ClearLines(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.CartLine{}).Error
	return errors.Wrap(err, "sqlstore: clear cart")
}

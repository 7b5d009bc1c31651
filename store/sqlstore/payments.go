package sqlstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return errors.Wrap(err, "sqlstore: create payment")
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.first(ctx, &payment, "payment", "id = ?", id); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) ListPayments(ctx context.Context, filter store.PaymentFilter) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "sqlstore: list payments")
	}
	return payments, nil
}

func (s *Store) TransitionPayment(ctx context.Context, id string, from, to models.PaymentStatus) (*models.Payment, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": now()})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "sqlstore: transition payment")
	}
	current, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidTransition("payment is %s, cannot move from %s to %s", current.Status, from, to)
	}
	return current, nil
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.deleteWhere(ctx, &models.Payment{}, "payment", "id = ?", id)
}

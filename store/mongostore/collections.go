package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	return insert(ctx, s.db.Collection(itemsCollection), item, "item")
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.findOne(ctx, itemsCollection, bson.M{"_id": id}, &item, "item"); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItemByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	if err := s.findOne(ctx, itemsCollection, bson.M{"itemID": code}, &item, "item"); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, filter store.ItemFilter) ([]models.Item, error) {
	query, sort, err := itemQuery(filter)
	if err != nil {
		return nil, err
	}
	items := make([]models.Item, 0)
	if err := s.findAll(ctx, itemsCollection, query, options.Find().SetSort(sort), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = now()
	return s.replace(ctx, itemsCollection, item.ID, item, "item")
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.deleteOne(ctx, itemsCollection, bson.M{"_id": id}, "item")
}

func (s *Store) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := s.db.Collection(itemsCollection).UpdateOne(ctx,
		bson.M{"_id": id, "stockCount": bson.M{"$gte": -delta}},
		bson.M{
			"$inc": bson.M{"stockCount": delta},
			"$set": bson.M{"updatedAt": now()},
		})
	if err != nil {
		return errors.Wrap(err, "mongostore: adjust stock")
	}
	if res.MatchedCount > 0 {
		return nil
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	return apperr.InvalidState("insufficient stock for %s: have %d, need %d", item.Name, item.StockCount, -delta)
}

func (s *Store) ListLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	if err := s.findAll(ctx, cartCollection, bson.M{"sessionId": sessionID}, opts, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) GetLine(ctx context.Context, sessionID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := s.findOne(ctx, cartCollection, bson.M{"_id": lineID, "sessionId": sessionID}, &line, "cart item"); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Store) FindLineByItem(ctx context.Context, sessionID, itemID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := s.findOne(ctx, cartCollection, bson.M{"sessionId": sessionID, "itemId": itemID}, &line, "cart item"); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Store) SaveLine(ctx context.Context, line *models.CartLine) error {
	_, err := s.db.Collection(cartCollection).ReplaceOne(ctx,
		bson.M{"_id": line.ID}, line, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "mongostore: save cart line")
}

func (s *Store) DeleteLine(ctx context.Context, sessionID, lineID string) error {
	return s.deleteOne(ctx, cartCollection, bson.M{"_id": lineID, "sessionId": sessionID}, "cart item")
}

func (s *Store) ClearLines(ctx context.Context, sessionID string) error {
	_, err := s.db.Collection(cartCollection).DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return errors.Wrap(err, "mongostore: clear cart")
}

func (s *Store) CreatePromotion(ctx context.Context, promo *models.Promotion) error {
	return insert(ctx, s.db.Collection(promotionsCollection), promo, "promotion key")
}

func (s *Store) GetPromotion(ctx context.Context, id string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.findOne(ctx, promotionsCollection, bson.M{"_id": id}, &promo, "promotion"); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Store) GetPromotionByKey(ctx context.Context, key string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.findOne(ctx, promotionsCollection, bson.M{"promotionKey": key}, &promo, "promotion"); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Store) ListPromotions(ctx context.Context, filter store.PromotionFilter) ([]models.Promotion, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["promotionType"] = filter.Type
	}
	promos := make([]models.Promotion, 0)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := s.findAll(ctx, promotionsCollection, query, opts, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

func (s *Store) UpdatePromotion(ctx context.Context, promo *models.Promotion) error {
	promo.UpdatedAt = now()
	return s.replace(ctx, promotionsCollection, promo.ID, promo, "promotion")
}

func (s *Store) DeletePromotion(ctx context.Context, id string) error {
	return s.deleteOne(ctx, promotionsCollection, bson.M{"_id": id}, "promotion")
}

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return insert(ctx, s.db.Collection(paymentsCollection), payment, "payment")
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.findOne(ctx, paymentsCollection, bson.M{"_id": id}, &payment, "payment"); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) ListPayments(ctx context.Context, filter store.PaymentFilter) ([]models.Payment, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["paymentStatus"] = filter.Status
	}
	payments := make([]models.Payment, 0)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := s.findAll(ctx, paymentsCollection, query, opts, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Store) TransitionPayment(ctx context.Context, id string, from, to models.PaymentStatus) (*models.Payment, error) {
	var updated models.Payment
	err := s.db.Collection(paymentsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "paymentStatus": from},
		bson.M{"$set": bson.M{"paymentStatus": to, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(err, "mongostore: transition payment")
	}
	current, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, apperr.InvalidTransition("payment is %s, cannot move from %s to %s", current.Status, from, to)
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.deleteOne(ctx, paymentsCollection, bson.M{"_id": id}, "payment")
}

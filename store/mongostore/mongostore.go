// Package mongostore implements store.Store on MongoDB, keeping the
// collection layout of the original Node backend.
package mongostore

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
)

const (
	itemsCollection      = "items"
	cartCollection       = "cart_lines"
	promotionsCollection = "promotions"
	paymentsCollection   = "payments"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// Connect dials MongoDB, pings it and creates the unique indexes.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(Registry()).
		SetServerSelectionTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongostore: connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "mongostore: ping")
	}

	s := &Store{client: client, db: client.Database(cfg.Database), log: log}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	log.Info("mongo connected", zap.String("database", cfg.Database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		itemsCollection: {
			{Keys: bson.D{{Key: "itemID", Value: 1}}, Options: unique},
		},
		promotionsCollection: {
			{Keys: bson.D{{Key: "promotionKey", Value: 1}}, Options: unique},
		},
		cartCollection: {
			{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "itemId", Value: 1}}, Options: unique},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "paymentStatus", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return errors.Wrapf(err, "mongostore: create indexes on %s", coll)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) findOne(ctx context.Context, coll string, filter interface{}, dest interface{}, what string) error {
	err := s.db.Collection(coll).FindOne(ctx, filter).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("%s not found", what)
	}
	return errors.Wrapf(err, "mongostore: load %s", what)
}

func (s *Store) findAll(ctx context.Context, coll string, filter interface{}, opts *options.FindOptions, dest interface{}) error {
	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return errors.Wrapf(err, "mongostore: find in %s", coll)
	}
	defer closeCursor(ctx, s.log, cursor)
	return errors.Wrapf(cursor.All(ctx, dest), "mongostore: decode %s", coll)
}

func (s *Store) replace(ctx context.Context, coll, id string, doc interface{}, what string) error {
	res, err := s.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Validation(what+" already exists", nil)
		}
		return errors.Wrapf(err, "mongostore: update %s", what)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

func (s *Store) deleteOne(ctx context.Context, coll string, filter interface{}, what string) error {
	res, err := s.db.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return errors.Wrapf(err, "mongostore: delete %s", what)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

func insert(ctx context.Context, c *mongo.Collection, doc interface{}, what string) error {
	if _, err := c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Validation(what+" already exists", nil)
		}
		return errors.Wrapf(err, "mongostore: insert %s", what)
	}
	return nil
}

func closeCursor(ctx context.Context, log *zap.Logger, cursor *mongo.Cursor) {
	if err := cursor.Close(ctx); err != nil {
		log.Warn("closing mongo cursor", zap.Error(err))
	}
}

// sortField maps store.ItemFilter.SortBy onto document fields.
func sortField(sortBy string) (string, bool) {
	switch sortBy {
	case "", "created_at":
		return "createdAt", true
	case "name":
		return "itemName", true
	case "price":
		return "itemPrice", true
	case "stock":
		return "stockCount", true
	default:
		return "", false
	}
}

// itemQuery builds the filter document and sort order for ListItems.
func itemQuery(f store.ItemFilter) (bson.M, bson.D, error) {
	field, ok := sortField(f.SortBy)
	if !ok {
		return nil, nil, apperr.Validation("invalid sort field", map[string]string{"sortBy": f.SortBy})
	}
	dir := 1
	if f.Desc {
		dir = -1
	}

	filter := bson.M{}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"itemName": re},
			bson.M{"itemID": re},
			bson.M{"itemBrand": re},
			bson.M{"itemDescription": re},
		}
	}
	if f.Category != "" {
		filter["catagory"] = f.Category
	}
	return filter, bson.D{{Key: field, Value: dir}}, nil
}

func now() time.Time {
	return time.Now().UTC()
}

var _ store.Store = (*Store)(nil)

// Package sqlstore implements store.Store on gorm. Production runs it on
// Postgres; tests run it on in-memory SQLite.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Config mirrors the DB_* settings; DSN wins when set.
type Config struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

// OpenPostgres connects, migrates and returns a ready store.
func OpenPostgres(cfg Config, log *zap.Logger) (*Store, error) {
	return Open(postgres.Open(cfg.dsn()), log)
}

// Open works with any gorm dialector.
func Open(dialector gorm.Dialector, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: open")
	}
	return New(db, log)
}

// New migrates the schema on db.
func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if err := db.AutoMigrate(
		&models.Item{},
		&models.CartLine{},
		&models.Promotion{},
		&models.Payment{},
	); err != nil {
		return nil, errors.Wrap(err, "sqlstore: auto-migrate")
	}
	log.Info("sql schema migrated")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "sqlstore: ping")
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "sqlstore: close")
	}
	return sqlDB.Close()
}

// first loads one record into dest, turning "no rows" into NotFound.
func (s *Store) first(ctx context.Context, dest interface{}, what string, query string, args ...interface{}) error {
	err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return errors.Wrapf(err, "sqlstore: load %s", what)
}

func (s *Store) deleteWhere(ctx context.Context, model interface{}, what string, query string, args ...interface{}) error {
	res := s.db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "sqlstore: delete %s", what)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

func duplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation(what+" already exists", nil)
	}
	return errors.Wrapf(err, "sqlstore: create %s", what)
}

func now() time.Time {
	return time.Now().UTC()
}

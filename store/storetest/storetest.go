// Package storetest opens a throwaway SQL store for tests in other packages.
package storetest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store/sqlstore"
)

// New returns an empty store backed by a private in-memory SQLite database.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	s, err := sqlstore.Open(sqlite.Open(dsn), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// Item inserts a minimal valid item and returns it.
func Item(t testing.TB, s *sqlstore.Store, code, name string, stock int, price string) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:         uuid.NewString(),
		Code:       code,
		Name:       name,
		Brand:      "GreenLink",
		Price:      decimal.RequireFromString(price),
		StockCount: stock,
		Category:   "Fertilizer",
		ImageURL:   "/uploads/" + code + ".png",
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

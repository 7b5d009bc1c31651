package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
	"github.com/viduni-ubesekara/GreenLink-Project/store/storetest"
)

func sampleItems() []models.Item {
	return []models.Item{
		{
			Code: "SEED-01", Name: "Tomato Seeds", Brand: "Agro", Category: "Seeds",
			Price: decimal.RequireFromString("150.50"), StockCount: 12, ImageURL: "/uploads/items/t.png",
			Description: "Hybrid tomato", PromotionEnabled: true, PromotionDescription: "5% off",
		},
		{
			Code: "FERT-02", Name: "Compost", Brand: "GreenGrow", Category: "Fertilizer",
			Price: decimal.RequireFromString("900"), StockCount: 80, ImageURL: "/uploads/items/c.png",
		},
	}
}

func TestWriteAndImportItems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, "Items", sampleItems()))

	svc := catalog.NewService(storetest.New(t), nil, 0, zap.NewNop())
	ctx := context.Background()
	data := buf.Bytes()

	res, err := ImportItems(ctx, svc, bytes.NewReader(data), int64(len(data)), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)

	items, err := svc.List(ctx, store.ItemFilter{SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Compost", items[0].Name)
	assert.Equal(t, "150.5", items[1].Price.String())
	assert.Equal(t, 12, items[1].StockCount)
	assert.True(t, items[1].PromotionEnabled)

	res, err = ImportItems(ctx, svc, bytes.NewReader(data), int64(len(data)), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)
}

func TestImportItems_SkipsBadRows(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	require.NoError(t, err)
	for _, cells := range [][]string{
		itemHeaders,
		{"OK-001", "Chilli Seeds", "Agro", "Seeds", "75", "5", "/uploads/items/c.png"},
		{"BAD-PRICE", "Chilli Seeds", "Agro", "Seeds", "cheap", "5", "/uploads/items/c.png"},
		{"X", "Ok", "Agro", "Seeds", "10", "5", "/uploads/items/c.png"},
		{"SHORT"},
	} {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	svc := catalog.NewService(storetest.New(t), nil, 0, zap.NewNop())
	res, err := ImportItems(context.Background(), svc, bytes.NewReader(buf.Bytes()), int64(buf.Len()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[1].Message, "at least 3 characters")
}

func TestImportItems_RejectsGarbage(t *testing.T) {
	data := []byte("not a workbook")
	_, err := ImportItems(context.Background(), nil, bytes.NewReader(data), int64(len(data)), zap.NewNop())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

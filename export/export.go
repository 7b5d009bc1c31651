// Package export moves catalog items in and out of Excel workbooks.
package export

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

var itemHeaders = []string{
	"ItemID", "ItemName", "Brand", "Category", "Price", "StockCount", "ImageURL",
	"Description", "Warranty", "PromotionEnabled", "PromotionDescription",
	"CreatedAt", "UpdatedAt",
}

// minImportCells covers ItemID through ImageURL.
const minImportCells = 7

// WriteItems writes items as a single-sheet workbook.
func WriteItems(w io.Writer, sheetName string, items []models.Item) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return errors.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range itemHeaders {
		header.AddCell().SetString(h)
	}
	for _, it := range items {
		row := sheet.AddRow()
		row.AddCell().SetString(it.Code)
		row.AddCell().SetString(it.Name)
		row.AddCell().SetString(it.Brand)
		row.AddCell().SetString(it.Category)
		row.AddCell().SetString(it.Price.StringFixed(2))
		row.AddCell().SetInt(it.StockCount)
		row.AddCell().SetString(it.ImageURL)
		row.AddCell().SetString(it.Description)
		row.AddCell().SetString(it.Warranty)
		row.AddCell().SetString(yesNo(it.PromotionEnabled))
		row.AddCell().SetString(it.PromotionDescription)
		row.AddCell().SetString(it.CreatedAt.Format(timeLayout))
		row.AddCell().SetString(it.UpdatedAt.Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return errors.Wrap(err, "export: write workbook")
	}
	return nil
}

// Upserter creates an item or updates the one with the same code.
type Upserter interface {
	Upsert(ctx context.Context, item models.Item) (created bool, err error)
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int        `json:"created_count"`
	Updated int        `json:"updated_count"`
	Skipped int        `json:"skipped_count"`
	Errors  []RowError `json:"errors,omitempty"`
}

// ImportItems reads the first sheet of the workbook in r. The first row is
// a header; rows that cannot be parsed or fail validation are skipped and
// reported.
func ImportItems(ctx context.Context, u Upserter, r io.ReaderAt, size int64, log *zap.Logger) (*ImportResult, error) {
	book, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, apperr.Validation("unreadable workbook", map[string]string{"file": "Failed to parse Excel file."})
	}
	if len(book.Sheets) == 0 || book.Sheets[0].MaxRow < 2 {
		return nil, apperr.Validation("empty workbook", map[string]string{"file": "Excel file is empty or missing header row."})
	}

	sheet := book.Sheets[0]
	res := &ImportResult{}
	for i := 1; i < sheet.MaxRow; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		item, err := parseRow(sheet.Rows[i])
		if err != nil {
			res.skip(i+1, err)
			continue
		}
		created, err := u.Upsert(ctx, item)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return res, err
			}
			res.skip(i+1, err)
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	log.Info("items imported",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (r *ImportResult) skip(row int, err error) {
	r.Skipped++
	msg := err.Error()
	if appErr, ok := apperr.As(err); ok && len(appErr.Fields) > 0 {
		var parts []string
		for _, h := range []string{"itemID", "itemName", "itemBrand", "catagory", "imgURL", "itemPrice", "stockCount", "itemDescription"} {
			if m, ok := appErr.Fields[h]; ok {
				parts = append(parts, m)
			}
		}
		if len(parts) > 0 {
			msg = strings.Join(parts, " ")
		}
	}
	r.Errors = append(r.Errors, RowError{Row: row, Message: msg})
}

func parseRow(row *xlsx.Row) (models.Item, error) {
	if row == nil || len(row.Cells) < minImportCells {
		return models.Item{}, errors.New("row has too few columns")
	}
	get := func(idx int) string {
		if idx < len(row.Cells) {
			return strings.TrimSpace(row.Cells[idx].String())
		}
		return ""
	}

	price, err := decimal.NewFromString(get(4))
	if err != nil {
		return models.Item{}, errors.Errorf("invalid price %q", get(4))
	}
	stock, err := strconv.Atoi(get(5))
	if err != nil {
		return models.Item{}, errors.Errorf("invalid stock count %q", get(5))
	}
	return models.Item{
		Code:                 get(0),
		Name:                 get(1),
		Brand:                get(2),
		Category:             get(3),
		Price:                price,
		StockCount:           stock,
		ImageURL:             get(6),
		Description:          get(7),
		Warranty:             get(8),
		PromotionEnabled:     parseYes(get(9)),
		PromotionDescription: get(10),
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

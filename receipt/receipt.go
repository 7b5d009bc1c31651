// Package receipt renders the downloadable checkout receipt.
package receipt

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Company struct {
	Name              string
	BankAccountName   string
	BankAccountNumber string
	BankBranch        string
}

type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
}

type Receipt struct {
	BillID       string
	IssuedAt     time.Time
	Lines        []Line
	Original     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	PromotionKey string
}

// NewBillID returns a short identifier the payer quotes with the bank
// transfer.
func NewBillID() string {
	return "GL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var billIDPattern = regexp.MustCompile(`^GL-[0-9A-F]{8}$`)

// ValidBillID reports whether id has the shape NewBillID produces.
func ValidBillID(id string) bool {
	return billIDPattern.MatchString(id)
}

func rs(d decimal.Decimal) string {
	return "Rs." + d.StringFixed(2)
}

// Render writes r as an A4 PDF.
func Render(w io.Writer, co Company, r Receipt) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 10, co.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Receipt", "", 1, "L", false, 0, "")
	y := pdf.GetY()
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(14, y, 196, y)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Date: "+r.IssuedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 240, 230)
	for _, col := range []struct {
		title string
		w     float64
		align string
	}{{"#", 10, "C"}, {"Item", 82, "L"}, {"Unit price", 32, "R"}, {"Qty", 16, "C"}, {"Total", 42, "R"}} {
		pdf.CellFormat(col.w, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for i, l := range r.Lines {
		pdf.CellFormat(10, 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(82, 7, l.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 7, rs(l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(16, 7, fmt.Sprint(l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(42, 7, rs(l.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if r.Discount.IsPositive() {
		pdf.CellFormat(140, 7, "Subtotal", "", 0, "R", false, 0, "")
		pdf.CellFormat(42, 7, rs(r.Original), "", 1, "R", false, 0, "")
		label := "Discount"
		if r.PromotionKey != "" {
			label += " (" + r.PromotionKey + ")"
		}
		pdf.CellFormat(140, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(42, 7, "-"+rs(r.Discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(140, 9, "Grand Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(42, 9, rs(r.Total), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Banking Details and Payment Instructions:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, text := range []string{
		"Name: " + co.BankAccountName,
		"Account Number: " + co.BankAccountNumber,
		"Branch: " + co.BankBranch,
		"Please make the payment to the above account.",
		"Mention the Bill ID (provided below) when making the payment.",
	} {
		pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Bill ID: "+r.BillID, "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Thank you for shopping with us!", "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "receipt: render pdf")
	}
	return nil
}

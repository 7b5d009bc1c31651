// Package promotion stores promotions and turns a redeemed code into a
// discount on a cart.
package promotion

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

var (
	hundred        = decimal.NewFromInt(100)
	percentPattern = regexp.MustCompile(`(\d+)%`)
)

// ParsePercent reads the integer right before the first '%' in a legacy
// promotion description. Values outside 0..100 are rejected.
func ParsePercent(description string) (int, error) {
	m := percentPattern.FindStringSubmatch(description)
	if m == nil {
		return 0, apperr.Parse("invalid promo description")
	}
	p, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, apperr.Parse("invalid promo description")
	}
	if p < 0 || p > 100 {
		return 0, apperr.Parse("discount percentage %d out of range", p)
	}
	return p, nil
}

// DiscountedTotal is total*(100-percent)/100 rounded to cents.
func DiscountedTotal(total, percent decimal.Decimal) decimal.Decimal {
	return total.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
}

// Applied is the outcome of a discount on one cart.
type Applied struct {
	Original decimal.Decimal `json:"originalTotal"`
	Amount   decimal.Decimal `json:"discountAmount"`
	Total    decimal.Decimal `json:"discountedTotal"`
	// Percent is set when the whole cart got a single percentage off.
	Percent *decimal.Decimal `json:"discountPercent,omitempty"`
}

func NoDiscount(original decimal.Decimal) Applied {
	return Applied{Original: original, Amount: decimal.Zero, Total: original.Round(2)}
}

func percentOff(original, percent decimal.Decimal) Applied {
	total := DiscountedTotal(original, percent)
	p := percent
	return Applied{Original: original, Amount: original.Sub(total), Total: total, Percent: &p}
}

func amountOff(original, amount decimal.Decimal) Applied {
	amount = decimal.Min(amount, original).Round(2)
	return Applied{Original: original, Amount: amount, Total: original.Sub(amount).Round(2)}
}

// Discount is a promotion accepted for redemption.
type Discount struct {
	Key  string              `json:"promotionKey"`
	Name string              `json:"promotionName"`
	Rule models.DiscountRule `json:"discount"`
	// LegacyPercent carries the percentage parsed from the description of
	// promotions created without a structured rule.
	LegacyPercent *decimal.Decimal `json:"discountPercent,omitempty"`
}

// Apply computes the discount for lines. Percentages and fixed amounts
// never take a line or the cart below zero.
func (d Discount) Apply(lines []models.CartLine) Applied {
	original := models.SumLines(lines)
	switch d.Rule.Kind {
	case models.DiscountLegacy:
		if d.LegacyPercent == nil {
			return NoDiscount(original)
		}
		return percentOff(original, *d.LegacyPercent)
	case models.DiscountGlobal:
		if d.Rule.GlobalUnit == models.UnitAmount {
			return amountOff(original, d.Rule.GlobalValue)
		}
		return percentOff(original, d.Rule.GlobalValue)
	case models.DiscountTiered:
		tier, ok := BestTier(d.Rule.Tiers, original)
		if !ok {
			return NoDiscount(original)
		}
		return percentOff(original, tier.Percent)
	case models.DiscountPerProduct:
		return amountOff(original, perProductAmount(d.Rule.Products, lines))
	default:
		return NoDiscount(original)
	}
}

// BestTier picks the tier with the highest minimum amount that subtotal
// still reaches.
func BestTier(tiers []models.Tier, subtotal decimal.Decimal) (models.Tier, bool) {
	var (
		best  models.Tier
		found bool
	)
	for _, t := range tiers {
		if t.MinAmount.GreaterThan(subtotal) {
			continue
		}
		if !found || t.MinAmount.GreaterThan(best.MinAmount) {
			best, found = t, true
		}
	}
	return best, found
}

// perProductAmount sums the per-line reductions. Fixed amounts are taken
// off every unit; each line is capped at its own total.
func perProductAmount(products []models.ProductDiscount, lines []models.CartLine) decimal.Decimal {
	amount := decimal.Zero
	for _, line := range lines {
		pd, ok := matchProduct(products, line)
		if !ok {
			continue
		}
		lineTotal := line.Total()
		var off decimal.Decimal
		if pd.Unit == models.UnitAmount {
			off = pd.Value.Mul(decimal.NewFromInt(int64(line.Quantity)))
		} else {
			off = lineTotal.Mul(pd.Value).Div(hundred)
		}
		amount = amount.Add(decimal.Min(off, lineTotal))
	}
	return amount.Round(2)
}

func matchProduct(products []models.ProductDiscount, line models.CartLine) (models.ProductDiscount, bool) {
	for _, p := range products {
		if p.ItemID == line.ItemID || (line.ItemCode != "" && p.ItemID == line.ItemCode) {
			return p, true
		}
	}
	return models.ProductDiscount{}, false
}

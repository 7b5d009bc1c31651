package promotion

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
	"github.com/viduni-ubesekara/GreenLink-Project/models"
)

// Input is the operator's promotion form. Dates may be plain calendar
// dates ("2025-03-01") or RFC 3339 timestamps.
type Input struct {
	Name                string                   `json:"promotionName"`
	Key                 string                   `json:"promotionKey"`
	StartDate           string                   `json:"startDate"`
	EndDate             string                   `json:"endDate"`
	UserEmail           string                   `json:"userEmail"`
	Number              looseString              `json:"number"`
	Type                models.PromotionType     `json:"promotionType"`
	Description         string                   `json:"description"`
	ImageBase64         string                   `json:"imageBase64"`
	DiscountApplyType   models.DiscountKind      `json:"discountApplyType"`
	Tiers               []models.Tier            `json:"tiers"`
	Products            []models.ProductDiscount `json:"products"`
	GlobalDiscountValue decimal.NullDecimal      `json:"globalDiscountValue"`
	GlobalDiscountUnit  models.DiscountUnit      `json:"globalDiscountUnit"`
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate reads value in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("invalid date", map[string]string{"date": value})
}

// NormalizeUnit maps the form's unit names onto the stored ones.
func NormalizeUnit(u models.DiscountUnit) models.DiscountUnit {
	switch strings.ToLower(strings.TrimSpace(string(u))) {
	case "%", "percent", "percentage":
		return models.UnitPercent
	case "rs", "fixed", "amount":
		return models.UnitAmount
	default:
		return u
	}
}

// ToModel validates the form and builds the promotion it describes. ID and
// timestamps are left to the caller.
func (in Input) ToModel(loc *time.Location) (*models.Promotion, error) {
	fields := map[string]string{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["promotionName"] = "Promotion name is required."
	}
	key := strings.TrimSpace(in.Key)
	if key == "" {
		fields["promotionKey"] = "Promotion key is required."
	} else if strings.ContainsAny(key, " \t\n") {
		fields["promotionKey"] = "Promotion key must not contain spaces."
	}

	switch in.Type {
	case models.PromotionGroup:
	case models.PromotionIndividual:
		if _, err := mail.ParseAddress(strings.TrimSpace(in.UserEmail)); err != nil {
			fields["userEmail"] = "A valid email is required for Individual promotions."
		}
	default:
		fields["promotionType"] = "Promotion type must be Individual or Group."
	}

	start, errStart := ParseDate(in.StartDate, loc)
	if errStart != nil {
		fields["startDate"] = "Start date is invalid."
	}
	end, errEnd := ParseDate(in.EndDate, loc)
	if errEnd != nil {
		fields["endDate"] = "End date is invalid."
	}
	if errStart == nil && errEnd == nil && end.Before(start) {
		fields["endDate"] = "End date must not be before start date."
	}

	rule := models.DiscountRule{
		Kind:       in.DiscountApplyType,
		Tiers:      in.Tiers,
		Products:   in.Products,
		GlobalUnit: NormalizeUnit(in.GlobalDiscountUnit),
	}
	if in.GlobalDiscountValue.Valid {
		rule.GlobalValue = in.GlobalDiscountValue.Decimal
	}
	for i := range rule.Products {
		rule.Products[i].Unit = NormalizeUnit(rule.Products[i].Unit)
	}
	for k, v := range ValidateRule(rule) {
		fields[k] = v
	}

	if len(fields) > 0 {
		return nil, apperr.Validation("invalid promotion", fields)
	}

	promo := &models.Promotion{
		Name:          name,
		Key:           key,
		StartDate:     start,
		EndDate:       end,
		ContactNumber: string(in.Number),
		Type:          in.Type,
		Description:   in.Description,
		ImageBase64:   in.ImageBase64,
		Discount:      rule,
	}
	if in.Type == models.PromotionIndividual {
		promo.UserEmail = strings.TrimSpace(in.UserEmail)
	}
	return promo, nil
}

// ValidateRule returns per-field problems with a structured discount.
func ValidateRule(rule models.DiscountRule) map[string]string {
	fields := map[string]string{}
	switch rule.Kind {
	case models.DiscountLegacy:
	case models.DiscountTiered:
		if len(rule.Tiers) == 0 {
			fields["tiers"] = "At least one tier is required."
		}
		for _, t := range rule.Tiers {
			if t.MinAmount.IsNegative() || !validPercent(t.Percent) {
				fields["tiers"] = "Tiers need a non-negative minimum and a 0-100 percentage."
				break
			}
		}
	case models.DiscountPerProduct:
		if len(rule.Products) == 0 {
			fields["products"] = "At least one product discount is required."
		}
		for _, p := range rule.Products {
			if strings.TrimSpace(p.ItemID) == "" || !validValue(p.Value, p.Unit) {
				fields["products"] = "Each product needs an id, a unit and a valid value."
				break
			}
		}
	case models.DiscountGlobal:
		if !validValue(rule.GlobalValue, rule.GlobalUnit) {
			fields["globalDiscountValue"] = "Global discount needs a unit and a valid value."
		}
	default:
		fields["discountApplyType"] = "Discount type must be tiered, customize or global."
	}
	return fields
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

func validValue(v decimal.Decimal, unit models.DiscountUnit) bool {
	switch unit {
	case models.UnitPercent:
		return validPercent(v)
	case models.UnitAmount:
		return !v.IsNegative()
	default:
		return false
	}
}

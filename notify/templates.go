package notify

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode"
)

func PaymentApprovedText(name string) string {
	return fmt.Sprintf("Hi %s, your payment has been successfully received. "+
		"Your order will be delivered within 7 working days. Thank you!", name)
}

func PaymentRejectedText(name string) string {
	return fmt.Sprintf("Hi %s, there's a fault in your payment. "+
		"Please contact us for further assistance. Thank you!", name)
}

// PromotionEmail renders the mail sent to the recipient of an Individual
// promotion.
func PromotionEmail(promotionName, imageBase64 string) (subject, body string) {
	subject = "New Promotion: " + promotionName

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #333;">New Promotion Available!</h2>`)
	fmt.Fprintf(&b, `<p style="color: #666; font-size: 16px;">Hello, there is a new promotion available: <strong>%s</strong></p>`,
		html.EscapeString(promotionName))
	if imageBase64 != "" {
		src := imageBase64
		if !strings.HasPrefix(src, "data:") {
			src = "data:image/jpeg;base64," + src
		}
		fmt.Fprintf(&b, `<div style="margin: 20px 0;"><img src="%s" alt="%s" style="max-width: 100%%; height: auto; border-radius: 8px;"></div>`,
			src, html.EscapeString(promotionName))
	}
	b.WriteString(`</div>`)
	return subject, b.String()
}

// FormatPhone keeps the last nine digits of phone behind countryCode, the
// form WhatsApp expects for Sri Lankan mobile numbers.
func FormatPhone(countryCode, phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}
	return countryCode + digits
}

// WhatsAppLink builds a click-to-chat link with text prefilled.
func WhatsAppLink(countryCode, phone, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + FormatPhone(countryCode, phone) + "?text=" + escaped
}

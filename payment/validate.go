package payment

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Payer is the contact detail collected with a payment.
type Payer struct {
	Name        string `form:"name" json:"name"`
	Email       string `form:"email" json:"email"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
}

func (p *Payer) trim() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
}

// ValidatePayer checks the payer form, returning a Validation error keyed
// by form field.
func ValidatePayer(p Payer) error {
	p.trim()
	fields := map[string]string{}
	if p.Name == "" {
		fields["name"] = "Name is required."
	}
	if p.Email == "" {
		fields["email"] = "Email is required."
	} else if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		fields["email"] = "Email is invalid."
	}
	if !phonePattern.MatchString(p.PhoneNumber) {
		fields["phoneNumber"] = "Phone number must be 10 digits."
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid payer details", fields)
	}
	return nil
}

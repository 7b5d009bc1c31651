// Package payment runs the operator review of submitted payments.
package payment

import "github.com/viduni-ubesekara/GreenLink-Project/models"

var transitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentSubmitted},
	models.PaymentSubmitted: {models.PaymentApproved, models.PaymentRejected},
}

// CanTransition reports whether a payment in status from may move to to.
// Approved and Rejected are terminal.
func CanTransition(from, to models.PaymentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

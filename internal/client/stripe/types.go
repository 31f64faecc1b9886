package stripe

import "github.com/stripe/stripe-go/v79"

// ChargePage is a single page of the charge listing
type ChargePage struct {
	Charges []*stripe.Charge
	HasMore bool
}

// PaymentIntentPage is a single page of the payment intent listing
type PaymentIntentPage struct {
	PaymentIntents []*stripe.PaymentIntent
	HasMore        bool
}

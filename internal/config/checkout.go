package config

import (
	"errors"
	"fmt"
)

var _ Defaults = (*CheckoutConfig)(nil)
var _ Validator = (*CheckoutConfig)(nil)

const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// CheckoutConfig holds the values a session request falls back to when it leaves them empty.
type CheckoutConfig struct {
	DefaultMode        string   `config:"default_mode"`
	DefaultProductName string   `config:"default_product_name"`
	PaymentMethodTypes []string `config:"payment_method_types"`
}

func (c CheckoutConfig) Defaults() map[string]any {
	return map[string]any{
		"default_mode":         ModePayment,
		"default_product_name": "Product",
		"payment_method_types": []string{"card"},
	}
}

func (c CheckoutConfig) Validate() error {
	if c.DefaultMode != ModePayment && c.DefaultMode != ModeSubscription {
		return fmt.Errorf("checkout.default_mode %q is not supported", c.DefaultMode)
	}

	if len(c.PaymentMethodTypes) == 0 {
		return errors.New("checkout.payment_method_types must not be empty")
	}

	return nil
}

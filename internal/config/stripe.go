package config

import (
	"errors"
	"github.com/stripe/stripe-go/v79"
	"strings"
)

var _ Defaults = (*StripeConfig)(nil)
var _ Validator = (*StripeConfig)(nil)

type StripeConfig struct {
	SecretKey         string `config:"secret_key"`
	APIVersion        string `config:"api_version"`
	APIBase           string `config:"api_base"`
	MaxNetworkRetries int64  `config:"max_network_retries"`
}

func (c StripeConfig) Defaults() map[string]any {
	return map[string]any{
		"api_version":         stripe.APIVersion,
		"api_base":            "",
		"max_network_retries": 2,
	}
}

func (c StripeConfig) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("stripe.secret_key is required")
	}

	if c.MaxNetworkRetries < 0 {
		return errors.New("stripe.max_network_retries must not be negative")
	}

	return nil
}

// PinnedAPIVersion reports whether the configured API version is the one the SDK speaks.
func (c StripeConfig) PinnedAPIVersion() bool {
	return c.APIVersion == "" || c.APIVersion == stripe.APIVersion
}

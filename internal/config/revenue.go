package config

import "errors"

var _ Defaults = (*RevenueConfig)(nil)
var _ Validator = (*RevenueConfig)(nil)

// MaxPageSize is the largest page the charge listing endpoint returns.
const MaxPageSize = 100

type RevenueConfig struct {
	PageSize             int64  `config:"page_size"`
	MaxPages             int    `config:"max_pages"`
	DefaultCurrency      string `config:"default_currency"`
	DefaultPaymentsLimit int64  `config:"default_payments_limit"`
}

func (c RevenueConfig) Defaults() map[string]any {
	return map[string]any{
		"page_size":              int64(MaxPageSize),
		"max_pages":              1,
		"default_currency":       "usd",
		"default_payments_limit": int64(50),
	}
}

func (c RevenueConfig) Validate() error {
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return errors.New("revenue.page_size must be between 1 and 100")
	}

	if c.MaxPages < 1 {
		return errors.New("revenue.max_pages must be at least 1")
	}

	if c.DefaultCurrency == "" {
		return errors.New("revenue.default_currency is required")
	}

	if c.DefaultPaymentsLimit <= 0 {
		return errors.New("revenue.default_payments_limit must be greater than 0")
	}

	return nil
}

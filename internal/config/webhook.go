package config

import (
	"errors"
	"github.com/stripe/stripe-go/v79/webhook"
	"strings"
	"time"
)

var _ Defaults = (*WebhookConfig)(nil)
var _ Validator = (*WebhookConfig)(nil)

type WebhookConfig struct {
	Enabled         bool          `config:"enabled"`
	SigningSecret   string        `config:"signing_secret"`
	Path            string        `config:"path"`
	SignatureHeader string        `config:"signature_header"`
	Tolerance       time.Duration `config:"tolerance"`
	MaxBodyBytes    int64         `config:"max_body_bytes"`
	// StrictAPIVersion rejects events rendered for another API version than the SDK's.
	StrictAPIVersion bool `config:"strict_api_version"`
}

func (c WebhookConfig) Defaults() map[string]any {
	return map[string]any{
		"enabled":            true,
		"path":               "/webhook",
		"signature_header":   "Stripe-Signature",
		"tolerance":          webhook.DefaultTolerance,
		"max_body_bytes":     int64(65536),
		"strict_api_version": false,
	}
}

func (c WebhookConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.SigningSecret) == "" {
		return errors.New("webhook.signing_secret is required")
	}

	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("webhook.path must start with /")
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("webhook.max_body_bytes must be greater than 0")
	}

	return nil
}

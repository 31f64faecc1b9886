package config

import (
	"errors"
	"fmt"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"strings"
)

const EnvPrefix = "PAYMENTS_"

// Defaults is implemented by every config section that has default values.
type Defaults interface {
	Defaults() map[string]any
}

// Validator is implemented by every config section that can reject its own values.
type Validator interface {
	Validate() error
}

var _ Defaults = (*Config)(nil)
var _ Validator = (*Config)(nil)

type Config struct {
	Stripe   StripeConfig   `config:"stripe"`
	Webhook  WebhookConfig  `config:"webhook"`
	Checkout CheckoutConfig `config:"checkout"`
	Revenue  RevenueConfig  `config:"revenue"`
	API      APIConfig      `config:"api"`
	Log      LogConfig      `config:"log"`
}

func (c Config) sections() map[string]any {
	return map[string]any{
		"stripe":   c.Stripe,
		"webhook":  c.Webhook,
		"checkout": c.Checkout,
		"revenue":  c.Revenue,
		"api":      c.API,
		"log":      c.Log,
	}
}

func (c Config) Defaults() map[string]any {
	defaults := make(map[string]any)

	for name, section := range c.sections() {
		d, ok := section.(Defaults)
		if !ok {
			continue
		}

		for key, value := range d.Defaults() {
			defaults[name+"."+key] = value
		}
	}

	return defaults
}

func (c Config) Validate() error {
	var errs []error

	for _, section := range c.sections() {
		v, ok := section.(Validator)
		if !ok {
			continue
		}

		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// New returns a Config populated with defaults only.
func New() *Config {
	cfg, err := load("", nil)
	if err != nil {
		// defaults alone always unmarshal
		panic(err)
	}

	return cfg
}

// LoadOption adjusts a loaded Config before it is validated.
type LoadOption func(*Config)

// WithoutWebhook disables the webhook section, so no signing secret is required.
func WithoutWebhook() LoadOption {
	return func(c *Config) {
		c.Webhook.Enabled = false
	}
}

// Load reads defaults, then the optional YAML file at path, then PAYMENTS_* environment
// variables, applies opts and validates the result. A double underscore in an environment
// variable name separates sections: PAYMENTS_STRIPE__SECRET_KEY sets stripe.secret_key.
func Load(path string, opts ...LoadOption) (*Config, error) {
	cfg, err := load(path, env.Provider(EnvPrefix, ".", envKey))
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func load(path string, envProvider koanf.Provider) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Config{}.Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if envProvider != nil {
		if err := k.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "config"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

func envKey(name string) string {
	name = strings.TrimPrefix(name, EnvPrefix)

	return strings.ReplaceAll(strings.ToLower(name), "__", ".")
}

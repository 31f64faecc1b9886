package payments

import (
	"errors"
	"fmt"
	"go.lumeweb.com/portal-plugin-payments/internal/api"
	stripeclient "go.lumeweb.com/portal-plugin-payments/internal/client/stripe"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	internal "go.lumeweb.com/portal-plugin-payments/internal/service"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"net/http"
)

type Config = config.Config

// DefaultConfig returns a Config holding only default values.
func DefaultConfig() *Config {
	return config.New()
}

type LoadOption = config.LoadOption

// WithoutWebhook loads a configuration for callers that never receive webhooks.
func WithoutWebhook() LoadOption {
	return config.WithoutWebhook()
}

// LoadConfig reads defaults, an optional YAML file and PAYMENTS_* environment variables.
func LoadConfig(path string, opts ...LoadOption) (*Config, error) {
	return config.Load(path, opts...)
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the HTTP client used to reach the provider API.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// Payments wires the provider client into the checkout, webhook and revenue services.
type Payments struct {
	Checkout service.CheckoutService
	Revenue  service.RevenueService
	// Webhook is nil when webhook.enabled is false.
	Webhook service.WebhookService

	cfg    *Config
	logger *zap.Logger
}

func New(cfg *Config, logger *zap.Logger, opts ...Option) (*Payments, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := stripeclient.NewClient(stripeclient.ClientConfig{
		SecretKey:         cfg.Stripe.SecretKey,
		APIBase:           cfg.Stripe.APIBase,
		MaxNetworkRetries: cfg.Stripe.MaxNetworkRetries,
		HTTPClient:        o.httpClient,
	}, logger.Named("stripe"))
	if err != nil {
		if errors.Is(err, stripeclient.ErrMissingSecretKey) {
			return nil, &service.Error{Kind: service.KindConfiguration, Message: "Missing Stripe secret key", Err: err}
		}
		return nil, fmt.Errorf("failed to create stripe client: %w", err)
	}

	checkout, err := internal.NewCheckoutService(cfg, client, logger)
	if err != nil {
		return nil, err
	}

	revenue, err := internal.NewRevenueService(cfg, client, logger)
	if err != nil {
		return nil, err
	}

	p := &Payments{
		Checkout: checkout,
		Revenue:  revenue,
		cfg:      cfg,
		logger:   logger,
	}

	if cfg.Webhook.Enabled {
		webhook, err := internal.NewWebhookService(cfg, logger)
		if err != nil {
			return nil, err
		}
		p.Webhook = webhook
	}

	return p, nil
}

// Handler returns the HTTP API. handlers receives the verified webhook events.
func (p *Payments) Handler(handlers service.HandlerMap) (http.Handler, error) {
	var opts []api.APIOption
	if p.Webhook != nil {
		opts = append(opts, api.WithWebhook(p.Webhook, handlers))
	}

	a, err := api.NewAPI(p.cfg, p.Checkout, p.Revenue, p.logger, opts...)
	if err != nil {
		return nil, err
	}

	return a.Handler()
}

// WebhookHandler returns only the webhook endpoint, for mounting on a foreign router.
func (p *Payments) WebhookHandler(handlers service.HandlerMap) (http.Handler, error) {
	if p.Webhook == nil {
		return nil, errors.New("webhook is disabled")
	}

	return api.NewWebhookHandler(p.Webhook, handlers, p.cfg.Webhook, p.logger.Named("api")), nil
}

package stripe

import (
	"context"
	"errors"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

var ErrMissingSecretKey = errors.New("missing Stripe secret key")

// ClientConfig contains configuration for the Stripe client
type ClientConfig struct {
	SecretKey         string
	APIBase           string
	MaxNetworkRetries int64
	HTTPClient        *http.Client
}

// Client handles communication with the Stripe API
type Client struct {
	api    *client.API
	logger *zap.Logger
}

// NewClient creates a new Stripe API client
func NewClient(config ClientConfig, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(config.SecretKey) == "" {
		return nil, ErrMissingSecretKey
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	backendConfig := &stripe.BackendConfig{
		LeveledLogger:     logger.Named("sdk").Sugar(),
		MaxNetworkRetries: stripe.Int64(config.MaxNetworkRetries),
	}
	if config.APIBase != "" {
		backendConfig.URL = stripe.String(config.APIBase)
	}
	if config.HTTPClient != nil {
		backendConfig.HTTPClient = config.HTTPClient
	}

	api := &client.API{}
	api.Init(config.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})

	return &Client{
		api:    api,
		logger: logger,
	}, nil
}

// CreateCheckoutSession creates a hosted checkout session
func (c *Client) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx

	c.logger.Info("creating checkout session",
		zap.Stringp("mode", params.Mode),
		zap.Int("line_items", len(params.LineItems)),
	)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Error("failed to create checkout session", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("checkout session created", zap.String("session_id", session.ID))

	return session, nil
}

// ListCharges fetches exactly one page of charges
func (c *Client) ListCharges(ctx context.Context, params *stripe.ChargeListParams) (*ChargePage, error) {
	params.Context = ctx
	params.Single = true

	c.logger.Debug("listing charges",
		zap.Int64p("limit", params.Limit),
		zap.Stringp("starting_after", params.StartingAfter),
	)

	iter := c.api.Charges.List(params)

	page := &ChargePage{}
	for iter.Next() {
		page.Charges = append(page.Charges, iter.Charge())
	}

	if err := iter.Err(); err != nil {
		c.logger.Error("failed to list charges", zap.Error(err))
		return nil, err
	}

	page.HasMore = iter.ChargeList().HasMore

	c.logger.Debug("charges listed",
		zap.Int("count", len(page.Charges)),
		zap.Bool("has_more", page.HasMore),
	)

	return page, nil
}

// CreateRefund refunds a payment intent
func (c *Client) CreateRefund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error) {
	params.Context = ctx

	c.logger.Info("creating refund", zap.Stringp("payment_intent", params.PaymentIntent))

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		c.logger.Error("failed to create refund",
			zap.Stringp("payment_intent", params.PaymentIntent),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("refund created",
		zap.String("refund_id", refund.ID),
		zap.String("status", string(refund.Status)),
	)

	return refund, nil
}

// ListPaymentIntents fetches exactly one page of payment intents
func (c *Client) ListPaymentIntents(ctx context.Context, params *stripe.PaymentIntentListParams) (*PaymentIntentPage, error) {
	params.Context = ctx
	params.Single = true

	iter := c.api.PaymentIntents.List(params)

	page := &PaymentIntentPage{}
	for iter.Next() {
		page.PaymentIntents = append(page.PaymentIntents, iter.PaymentIntent())
	}

	if err := iter.Err(); err != nil {
		c.logger.Error("failed to list payment intents", zap.Error(err))
		return nil, err
	}

	page.HasMore = iter.PaymentIntentList().HasMore

	return page, nil
}

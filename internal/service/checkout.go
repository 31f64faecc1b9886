package service

import (
	"context"
	"github.com/stripe/stripe-go/v79"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.uber.org/zap"
)

const CHECKOUT_SERVICE = "checkout"

type SessionMode string

const (
	SessionModePayment      SessionMode = config.ModePayment
	SessionModeSubscription SessionMode = config.ModeSubscription
)

type SessionRequest struct {
	Mode           SessionMode       `json:"mode,omitempty"`
	Amount         int64             `json:"amount,omitempty"`
	Currency       string            `json:"currency,omitempty"`
	SuccessURL     string            `json:"success_url"`
	CancelURL      string            `json:"cancel_url"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	PriceID        string            `json:"price_id,omitempty"`
	ProductName    string            `json:"product_name,omitempty"`
	IdempotencyKey string            `json:"-"`
}

type SessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Raw Object `json:"-"`
}

// SessionCreator is the remote checkout session API.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type CheckoutServiceDefault struct {
	provider SessionCreator
	cfg      config.CheckoutConfig
	logger   *zap.Logger
}

// sessionDefaults is a request with every default already applied.
type sessionDefaults struct {
	mode               SessionMode
	productName        string
	paymentMethodTypes []string
}

func NewCheckoutService(cfg *config.Config, provider SessionCreator, logger *zap.Logger) (*CheckoutServiceDefault, error) {
	if cfg == nil {
		return nil, newConfigurationError(msgMissingSecretKey)
	}

	if err := validateSecret(cfg.Stripe.SecretKey, msgMissingSecretKey); err != nil {
		return nil, err
	}

	if provider == nil {
		return nil, newConfigurationError(msgMissingProvider)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &CheckoutServiceDefault{
		provider: provider,
		cfg:      cfg.Checkout,
		logger:   logger.Named(CHECKOUT_SERVICE),
	}, nil
}

func (c *CheckoutServiceDefault) ID() string {
	return CHECKOUT_SERVICE
}

func (c *CheckoutServiceDefault) CreateSession(ctx context.Context, req *SessionRequest) (*SessionResult, error) {
	if req == nil {
		req = &SessionRequest{}
	}

	resolved := c.resolveSession(req)

	if err := validateRedirects(req.SuccessURL, req.CancelURL); err != nil {
		return nil, err
	}

	var params *stripe.CheckoutSessionParams

	switch resolved.mode {
	case SessionModePayment:
		if err := validatePaymentMode(req.Amount, req.Currency); err != nil {
			return nil, err
		}
		params = paymentSessionParams(req, resolved)
	case SessionModeSubscription:
		if err := validateSubscriptionMode(req.PriceID); err != nil {
			return nil, err
		}
		params = subscriptionSessionParams(req)
	default:
		return nil, newValidationError(msgUnsupportedMode)
	}

	params.SuccessURL = stripe.String(req.SuccessURL)
	params.CancelURL = stripe.String(req.CancelURL)
	params.PaymentMethodTypes = stripe.StringSlice(resolved.paymentMethodTypes)

	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	}

	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	session, err := c.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		c.logger.Error("failed to create checkout session",
			zap.String("mode", string(resolved.mode)),
			zap.Error(err),
		)
		return nil, newUpstreamError(err, msgSessionFailed)
	}

	c.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("mode", string(resolved.mode)),
	)

	return &SessionResult{
		ID:  session.ID,
		URL: session.URL,
		Raw: sessionObject(session),
	}, nil
}

func (c *CheckoutServiceDefault) resolveSession(req *SessionRequest) sessionDefaults {
	resolved := sessionDefaults{
		mode:               req.Mode,
		productName:        req.ProductName,
		paymentMethodTypes: c.cfg.PaymentMethodTypes,
	}

	if resolved.mode == "" {
		resolved.mode = SessionMode(c.cfg.DefaultMode)
	}
	if resolved.mode == "" {
		resolved.mode = SessionModePayment
	}

	if resolved.productName == "" {
		resolved.productName = c.cfg.DefaultProductName
	}

	if len(resolved.paymentMethodTypes) == 0 {
		resolved.paymentMethodTypes = []string{string(stripe.PaymentMethodTypeCard)}
	}

	return resolved
}

func paymentSessionParams(req *SessionRequest, resolved sessionDefaults) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(resolved.productName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
}

func subscriptionSessionParams(req *SessionRequest) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
}

func sessionObject(session *stripe.CheckoutSession) Object {
	if session.LastResponse != nil && len(session.LastResponse.RawJSON) > 0 {
		return NewObject(session.LastResponse.RawJSON)
	}

	return newObjectFrom(session)
}

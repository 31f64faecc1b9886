package service

import (
	"context"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.uber.org/zap"
)

const WEBHOOK_SERVICE = "webhook"

// HandlerFunc receives the data object of a verified event.
type HandlerFunc func(ctx context.Context, data Object) error

// HandlerMap maps an event type to the single handler it is delivered to.
type HandlerMap map[string]HandlerFunc

func NewHandlerMap() HandlerMap {
	return make(HandlerMap)
}

// Register binds handler to eventType. A later registration for the same type replaces the
// earlier one; the return value reports whether that happened.
func (m HandlerMap) Register(eventType string, handler HandlerFunc) bool {
	_, replaced := m[eventType]
	m[eventType] = handler

	return replaced
}

// VerifiedEvent is only produced by a successful signature check.
type VerifiedEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Created    int64  `json:"created"`
	Livemode   bool   `json:"livemode"`
	APIVersion string `json:"api_version"`
	Data       Object `json:"data"`
}

// Verifier checks payload against the signature header under secret and parses the event.
type Verifier func(payload []byte, header string, secret string) (stripe.Event, error)

type WebhookOption func(*WebhookServiceDefault)

func WithVerifier(verifier Verifier) WebhookOption {
	return func(w *WebhookServiceDefault) {
		w.verify = verifier
	}
}

type WebhookServiceDefault struct {
	secret string
	verify Verifier
	logger *zap.Logger
}

func NewWebhookService(cfg *config.Config, logger *zap.Logger, opts ...WebhookOption) (*WebhookServiceDefault, error) {
	if cfg == nil {
		return nil, newConfigurationError(msgMissingSecretKey)
	}

	if err := validateSecret(cfg.Stripe.SecretKey, msgMissingSecretKey); err != nil {
		return nil, err
	}

	if err := validateSecret(cfg.Webhook.SigningSecret, msgMissingSigningSecret); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	w := &WebhookServiceDefault{
		secret: cfg.Webhook.SigningSecret,
		verify: stripeVerifier(webhook.ConstructEventOptions{
			Tolerance:                cfg.Webhook.Tolerance,
			IgnoreAPIVersionMismatch: !strictAPIVersion(cfg),
		}),
		logger: logger.Named(WEBHOOK_SERVICE),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// strictAPIVersion reports whether events must carry the API version the SDK decodes. The
// check only applies when strict mode is on and stripe.api_version is the SDK's own.
func strictAPIVersion(cfg *config.Config) bool {
	return cfg.Webhook.StrictAPIVersion && cfg.Stripe.PinnedAPIVersion()
}

func stripeVerifier(options webhook.ConstructEventOptions) Verifier {
	return func(payload []byte, header string, secret string) (stripe.Event, error) {
		return webhook.ConstructEventWithOptions(payload, header, secret, options)
	}
}

func (w *WebhookServiceDefault) ID() string {
	return WEBHOOK_SERVICE
}

func (w *WebhookServiceDefault) Verify(payload []byte, signature string) (*VerifiedEvent, error) {
	event, err := w.verify(payload, signature, w.secret)
	if err != nil {
		w.logger.Warn("webhook signature verification failed", zap.Error(err))
		return nil, newSignatureError(err)
	}

	verified := &VerifiedEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		Created:    event.Created,
		Livemode:   event.Livemode,
		APIVersion: event.APIVersion,
	}

	if event.Data != nil {
		verified.Data = NewObject(event.Data.Raw)
	}

	return verified, nil
}

// Dispatch delivers event.Data to the handler registered for event.Type, if any. Unmatched
// types are accepted silently. A handler error is returned as is, together with the event.
func (w *WebhookServiceDefault) Dispatch(ctx context.Context, event *VerifiedEvent, handlers HandlerMap) (*VerifiedEvent, error) {
	if event == nil {
		return nil, newValidationError(msgEventRequired)
	}

	handler, ok := handlers[event.Type]
	if !ok || handler == nil {
		w.logger.Debug("no handler registered for event",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return event, nil
	}

	if err := handler(ctx, event.Data); err != nil {
		w.logger.Error("webhook handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
		return event, err
	}

	w.logger.Debug("webhook event dispatched",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
	)

	return event, nil
}

// HandleRaw verifies payload and dispatches the resulting event.
func (w *WebhookServiceDefault) HandleRaw(ctx context.Context, payload []byte, signature string, handlers HandlerMap) (*VerifiedEvent, error) {
	event, err := w.Verify(payload, signature)
	if err != nil {
		return nil, err
	}

	return w.Dispatch(ctx, event, handlers)
}

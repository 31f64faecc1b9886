package service

import (
	"context"
	"github.com/stripe/stripe-go/v79"
	stripeclient "go.lumeweb.com/portal-plugin-payments/internal/client/stripe"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
)

type fakeProvider struct {
	createSession      func(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	listCharges        func(ctx context.Context, params *stripe.ChargeListParams) (*stripeclient.ChargePage, error)
	createRefund       func(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error)
	listPaymentIntents func(ctx context.Context, params *stripe.PaymentIntentListParams) (*stripeclient.PaymentIntentPage, error)

	sessionCalls int
	chargeCalls  []*stripe.ChargeListParams
	refundCalls  int
	intentCalls  int
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.sessionCalls++
	return f.createSession(ctx, params)
}

func (f *fakeProvider) ListCharges(ctx context.Context, params *stripe.ChargeListParams) (*stripeclient.ChargePage, error) {
	f.chargeCalls = append(f.chargeCalls, params)
	return f.listCharges(ctx, params)
}

func (f *fakeProvider) CreateRefund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error) {
	f.refundCalls++
	return f.createRefund(ctx, params)
}

func (f *fakeProvider) ListPaymentIntents(ctx context.Context, params *stripe.PaymentIntentListParams) (*stripeclient.PaymentIntentPage, error) {
	f.intentCalls++
	return f.listPaymentIntents(ctx, params)
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Stripe.SecretKey = "sk_test_123"
	cfg.Webhook.SigningSecret = "whsec_test_secret"

	return cfg
}

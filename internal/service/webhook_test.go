package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"testing"
	"time"
)

func eventPayload(id, eventType, apiVersion string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"type": %q,
		"api_version": %q,
		"created": 1700000000,
		"livemode": false,
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"amount_total": 2000,
				"currency": "usd",
				"metadata": {"courseId": "c1"}
			}
		}
	}`, id, eventType, apiVersion))
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	}).Header
}

func newWebhookFixture(t *testing.T) *WebhookServiceDefault {
	t.Helper()

	svc, err := NewWebhookService(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	return svc
}

func TestNewWebhookServiceRequiresSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.Webhook.SigningSecret = ""

	_, err := NewWebhookService(cfg, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "Missing webhook signing secret", err.Error())

	cfg = testConfig()
	cfg.Stripe.SecretKey = ""

	_, err = NewWebhookService(cfg, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "Missing Stripe secret key", err.Error())
}

func TestVerify(t *testing.T) {
	svc := newWebhookFixture(t)
	payload := eventPayload("evt_1", "checkout.session.completed", stripe.APIVersion)

	event, err := svc.Verify(payload, sign(payload, "whsec_test_secret"))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, int64(1700000000), event.Created)
	assert.False(t, event.Livemode)
	assert.Equal(t, "cs_test_1", event.Data.ID())
	assert.Equal(t, int64(2000), event.Data.Amount())
	assert.Equal(t, "c1", event.Data.Metadata()["courseId"])
}

func TestVerifyRejects(t *testing.T) {
	svc := newWebhookFixture(t)
	payload := eventPayload("evt_1", "checkout.session.completed", stripe.APIVersion)

	tests := []struct {
		name      string
		payload   []byte
		signature string
	}{
		{name: "empty header", payload: payload, signature: ""},
		{name: "malformed header", payload: payload, signature: "garbage"},
		{name: "wrong secret", payload: payload, signature: sign(payload, "whsec_other")},
		{name: "tampered payload", payload: append([]byte(" "), payload...), signature: sign(payload, "whsec_test_secret")},
		{
			name:    "stale timestamp",
			payload: payload,
			signature: webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
				Payload:   payload,
				Secret:    "whsec_test_secret",
				Timestamp: time.Now().Add(-time.Hour),
			}).Header,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := svc.Verify(tt.payload, tt.signature)
			require.Error(t, err)
			assert.Nil(t, event)
			assert.ErrorIs(t, err, ErrSignature)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestVerifyAcceptsOtherAPIVersions(t *testing.T) {
	svc := newWebhookFixture(t)

	for _, version := range []string{"2025-08-27.basil", "2020-08-27"} {
		payload := eventPayload("evt_1", "checkout.session.completed", version)

		event, err := svc.Verify(payload, sign(payload, "whsec_test_secret"))
		require.NoError(t, err, version)
		assert.Equal(t, version, event.APIVersion)
		assert.Equal(t, "cs_test_1", event.Data.ID())
	}
}

func TestVerifyStrictAPIVersion(t *testing.T) {
	payload := eventPayload("evt_1", "charge.refunded", "2025-08-27.basil")
	signature := sign(payload, "whsec_test_secret")

	cfg := testConfig()
	cfg.Webhook.StrictAPIVersion = true

	svc, err := NewWebhookService(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = svc.Verify(payload, signature)
	assert.ErrorIs(t, err, ErrSignature)

	pinned := eventPayload("evt_2", "charge.refunded", stripe.APIVersion)
	event, err := svc.Verify(pinned, sign(pinned, "whsec_test_secret"))
	require.NoError(t, err)
	assert.Equal(t, "evt_2", event.ID)

	cfg.Stripe.APIVersion = "2025-08-27.basil"

	svc, err = NewWebhookService(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = svc.Verify(payload, signature)
	assert.NoError(t, err)
}

func TestDispatch(t *testing.T) {
	svc := newWebhookFixture(t)

	var completed, expired int
	var received Object

	handlers := NewHandlerMap()
	handlers.Register("checkout.session.completed", func(_ context.Context, data Object) error {
		completed++
		received = data
		return nil
	})
	handlers.Register("checkout.session.expired", func(context.Context, Object) error {
		expired++
		return nil
	})

	event := &VerifiedEvent{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Data: NewObject([]byte(`{"id":"cs_test_1"}`)),
	}

	dispatched, err := svc.Dispatch(context.Background(), event, handlers)
	require.NoError(t, err)
	assert.Same(t, event, dispatched)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, expired)
	assert.Equal(t, "cs_test_1", received.ID())
}

func TestDispatchUnmatchedType(t *testing.T) {
	svc := newWebhookFixture(t)

	called := false
	handlers := HandlerMap{
		"checkout.session.completed": func(context.Context, Object) error {
			called = true
			return nil
		},
	}

	event, err := svc.Dispatch(context.Background(), &VerifiedEvent{ID: "evt_2", Type: "invoice.paid"}, handlers)
	require.NoError(t, err)
	assert.Equal(t, "evt_2", event.ID)
	assert.False(t, called)

	_, err = svc.Dispatch(context.Background(), &VerifiedEvent{Type: "invoice.paid"}, nil)
	assert.NoError(t, err)
}

func TestDispatchHandlerError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	svc, err := NewWebhookService(testConfig(), zap.New(core))
	require.NoError(t, err)

	handlerErr := errors.New("fulfilment unavailable")
	handlers := HandlerMap{
		"checkout.session.completed": func(context.Context, Object) error {
			return handlerErr
		},
	}

	event, err := svc.Dispatch(context.Background(), &VerifiedEvent{ID: "evt_3", Type: "checkout.session.completed"}, handlers)
	assert.Same(t, handlerErr, err)
	assert.Equal(t, "evt_3", event.ID)
	assert.Equal(t, 1, logs.FilterMessage("webhook handler failed").Len())
}

func TestDispatchRequiresEvent(t *testing.T) {
	_, err := newWebhookFixture(t).Dispatch(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHandlerMapRegisterReplaces(t *testing.T) {
	handlers := NewHandlerMap()

	var calls []string
	assert.False(t, handlers.Register("charge.refunded", func(context.Context, Object) error {
		calls = append(calls, "first")
		return nil
	}))
	assert.True(t, handlers.Register("charge.refunded", func(context.Context, Object) error {
		calls = append(calls, "second")
		return nil
	}))

	svc := newWebhookFixture(t)
	_, err := svc.Dispatch(context.Background(), &VerifiedEvent{Type: "charge.refunded"}, handlers)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, calls)
}

func TestHandleRaw(t *testing.T) {
	svc := newWebhookFixture(t)
	payload := eventPayload("evt_4", "checkout.session.completed", stripe.APIVersion)

	calls := 0
	handlers := HandlerMap{
		"checkout.session.completed": func(_ context.Context, data Object) error {
			calls++
			assert.Equal(t, "usd", data.Currency())
			return nil
		},
	}

	event, err := svc.HandleRaw(context.Background(), payload, sign(payload, "whsec_test_secret"), handlers)
	require.NoError(t, err)
	assert.Equal(t, "evt_4", event.ID)
	assert.Equal(t, 1, calls)

	_, err = svc.HandleRaw(context.Background(), payload, "t=1,v1=deadbeef", handlers)
	assert.ErrorIs(t, err, ErrSignature)
	assert.Equal(t, 1, calls)
}

func TestWithVerifier(t *testing.T) {
	svc, err := NewWebhookService(testConfig(), nil, WithVerifier(func(payload []byte, header string, secret string) (stripe.Event, error) {
		assert.Equal(t, "whsec_test_secret", secret)
		assert.Equal(t, "sig", header)
		return stripe.Event{ID: "evt_custom", Type: "ping"}, nil
	}))
	require.NoError(t, err)

	event, err := svc.Verify([]byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, "evt_custom", event.ID)
	assert.True(t, event.Data.IsEmpty())
}

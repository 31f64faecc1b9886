package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	internal "go.lumeweb.com/portal-plugin-payments/internal/service"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func signedEvent(t *testing.T, eventType string) ([]byte, string) {
	t.Helper()

	return signedEventWithVersion(t, eventType, stripe.APIVersion)
}

func signedEventWithVersion(t *testing.T, eventType, apiVersion string) ([]byte, string) {
	t.Helper()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": %q,
		"api_version": %q,
		"created": 1700000000,
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "metadata": {"courseId": "c1"}}}
	}`, eventType, apiVersion))

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  "whsec_test_secret",
	})

	return payload, signed.Header
}

func newWebhookTestHandler(t *testing.T, handlers service.HandlerMap, logger *zap.Logger) http.Handler {
	t.Helper()

	cfg := testConfig()

	svc, err := internal.NewWebhookService(cfg, logger)
	require.NoError(t, err)

	a, err := NewAPI(cfg, &fakeCheckout{}, &fakeRevenue{}, logger, WithWebhook(svc, handlers))
	require.NoError(t, err)

	handler, err := a.Handler()
	require.NoError(t, err)

	return handler
}

func postWebhook(handler http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestWebhookReceived(t *testing.T) {
	var courses []string
	handlers := service.NewHandlerMap()
	handlers.Register("checkout.session.completed", func(_ context.Context, data service.Object) error {
		courses = append(courses, data.Metadata()["courseId"])
		return nil
	})

	handler := newWebhookTestHandler(t, handlers, zaptest.NewLogger(t))
	payload, signature := signedEvent(t, "checkout.session.completed")

	rec := postWebhook(handler, payload, signature)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, []string{"c1"}, courses)
}

func TestWebhookNewerAPIVersionReceived(t *testing.T) {
	received := 0
	handlers := service.NewHandlerMap()
	handlers.Register("checkout.session.completed", func(context.Context, service.Object) error {
		received++
		return nil
	})

	handler := newWebhookTestHandler(t, handlers, zaptest.NewLogger(t))
	payload, signature := signedEventWithVersion(t, "checkout.session.completed", "2025-08-27.basil")

	rec := postWebhook(handler, payload, signature)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, 1, received)
}

func TestWebhookUnhandledTypeStillReceived(t *testing.T) {
	handler := newWebhookTestHandler(t, service.NewHandlerMap(), zaptest.NewLogger(t))
	payload, signature := signedEvent(t, "invoice.paid")

	rec := postWebhook(handler, payload, signature)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
}

func TestWebhookInvalidSignature(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	called := false
	handlers := service.HandlerMap{
		"checkout.session.completed": func(context.Context, service.Object) error {
			called = true
			return nil
		},
	}

	handler := newWebhookTestHandler(t, handlers, zap.New(core))
	payload, _ := signedEvent(t, "checkout.session.completed")

	for _, signature := range []string{"", "t=1700000000,v1=deadbeef"} {
		rec := postWebhook(handler, payload, signature)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Webhook Error: "), rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	}

	assert.False(t, called)
	assert.Equal(t, 2, logs.FilterMessage("webhook rejected").Len())
}

func TestWebhookHandlerFailure(t *testing.T) {
	handlers := service.HandlerMap{
		"checkout.session.completed": func(context.Context, service.Object) error {
			return errors.New("fulfilment unavailable")
		},
	}

	handler := newWebhookTestHandler(t, handlers, zaptest.NewLogger(t))
	payload, signature := signedEvent(t, "checkout.session.completed")

	rec := postWebhook(handler, payload, signature)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Webhook Error: fulfilment unavailable", rec.Body.String())
}

func TestWebhookBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Webhook.MaxBodyBytes = 16

	svc, err := internal.NewWebhookService(cfg, nil)
	require.NoError(t, err)

	handler := NewWebhookHandler(svc, service.NewHandlerMap(), cfg.Webhook, zaptest.NewLogger(t))
	payload, signature := signedEvent(t, "checkout.session.completed")

	rec := postWebhook(handler, payload, signature)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Webhook Error: "))
}

func TestWebhookDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Webhook.Enabled = false

	svc, err := internal.NewWebhookService(cfg, nil)
	require.NoError(t, err)

	a, err := NewAPI(cfg, &fakeCheckout{}, &fakeRevenue{}, nil, WithWebhook(svc, nil))
	require.NoError(t, err)

	handler, err := a.Handler()
	require.NoError(t, err)

	payload, signature := signedEvent(t, "checkout.session.completed")
	rec := postWebhook(handler, payload, signature)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package api

import (
	"fmt"
	"go.lumeweb.com/portal-plugin-payments/internal/api/messages"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"io"
	"net/http"
)

const webhookErrorPrefix = "Webhook Error: "

type webhookHandler struct {
	service  service.WebhookService
	handlers service.HandlerMap
	cfg      config.WebhookConfig
	logger   *zap.Logger
}

// NewWebhookHandler serves provider webhooks. The raw body and signature header are verified
// before the event is dispatched; any failure is answered with 400 and a plain text message.
func NewWebhookHandler(webhookService service.WebhookService, handlers service.HandlerMap, cfg config.WebhookConfig, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.SignatureHeader == "" {
		cfg.SignatureHeader = "Stripe-Signature"
	}

	return &webhookHandler{
		service:  webhookService,
		handlers: handlers,
		cfg:      cfg,
		logger:   logger,
	}
}

func (h *webhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, h.logger)

	body := r.Body
	if h.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		h.fail(ctx, fmt.Errorf("failed to read body: %w", err))
		return
	}

	event, err := h.service.HandleRaw(r.Context(), payload, r.Header.Get(h.cfg.SignatureHeader), h.handlers)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.logger.Debug("webhook processed",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
	)

	ctx.Encode(&messages.WebhookReceivedResponse{Received: true})
}

func (h *webhookHandler) fail(ctx *requestContext, err error) {
	ctx.logger.Warn("webhook rejected", zap.Error(err))

	ctx.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	ctx.w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(ctx.w, webhookErrorPrefix+err.Error())
}

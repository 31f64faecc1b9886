package api

import (
	"errors"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"net/http"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
)

type API struct {
	cfg             *config.Config
	logger          *zap.Logger
	checkoutService service.CheckoutService
	webhookService  service.WebhookService
	revenueService  service.RevenueService
	handlers        service.HandlerMap
}

type APIOption func(*API)

// WithWebhook mounts the webhook endpoint, dispatching verified events to handlers.
func WithWebhook(webhookService service.WebhookService, handlers service.HandlerMap) APIOption {
	return func(a *API) {
		a.webhookService = webhookService
		a.handlers = handlers
	}
}

func NewAPI(cfg *config.Config, checkoutService service.CheckoutService, revenueService service.RevenueService, logger *zap.Logger, opts ...APIOption) (*API, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if checkoutService == nil || revenueService == nil {
		return nil, errors.New("checkout and revenue services are required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	a := &API{
		cfg:             cfg,
		logger:          logger.Named("api"),
		checkoutService: checkoutService,
		revenueService:  revenueService,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func (a *API) Configure(router *mux.Router) error {
	if a.webhookService != nil {
		if !a.cfg.Webhook.Enabled {
			a.logger.Info("webhook endpoint disabled")
		} else {
			router.Handle(a.cfg.Webhook.Path, NewWebhookHandler(a.webhookService, a.handlers, a.cfg.Webhook, a.logger)).Methods("POST")
		}
	}

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/checkout/sessions", a.createSession).Methods("POST")
	apiRouter.HandleFunc("/revenue", a.getRevenue).Methods("GET")
	apiRouter.HandleFunc("/revenue/metadata/{key}/{value}", a.getRevenueByMetadata).Methods("GET")
	apiRouter.HandleFunc("/refunds", a.createRefund).Methods("POST")
	apiRouter.HandleFunc("/payments", a.listPayments).Methods("GET")

	return nil
}

// Handler returns the configured router wrapped with request ids and CORS.
func (a *API) Handler() (http.Handler, error) {
	router := mux.NewRouter()

	if err := a.Configure(router); err != nil {
		return nil, err
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.cfg.API.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", IdempotencyKeyHeader, RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})

	return requestIDMiddleware(corsHandler.Handler(router)), nil
}

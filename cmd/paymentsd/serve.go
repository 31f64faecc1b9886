package main

import (
	"context"
	"errors"
	"github.com/spf13/cobra"
	"go.lumeweb.com/portal-plugin-payments/service"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the webhook endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	p, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	handler, err := p.Handler(loggingHandlers(logger))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.API.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// loggingHandlers records the events a checkout integration usually cares about.
func loggingHandlers(logger *zap.Logger) service.HandlerMap {
	logger = logger.Named("events")
	handlers := service.NewHandlerMap()

	logEvent := func(message string) service.HandlerFunc {
		return func(_ context.Context, data service.Object) error {
			logger.Info(message,
				zap.String("object_id", data.ID()),
				zap.Int64("amount", data.Amount()),
				zap.String("currency", data.Currency()),
				zap.Any("metadata", data.Metadata()),
			)
			return nil
		}
	}

	handlers.Register("checkout.session.completed", logEvent("checkout session completed"))
	handlers.Register("checkout.session.expired", logEvent("checkout session expired"))
	handlers.Register("payment_intent.succeeded", logEvent("payment succeeded"))
	handlers.Register("payment_intent.payment_failed", logEvent("payment failed"))
	handlers.Register("charge.refunded", logEvent("charge refunded"))

	return handlers
}

package main

import (
	"fmt"
	"github.com/spf13/cobra"
	payments "go.lumeweb.com/portal-plugin-payments"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.uber.org/zap"
)

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// setup loads the configuration named by --config and builds the services from it.
func setup(cmd *cobra.Command, opts ...payments.LoadOption) (*payments.Payments, *payments.Config, *zap.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := payments.LoadConfig(path, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := payments.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to initialize payments: %w", err)
	}

	return p, cfg, logger, nil
}
